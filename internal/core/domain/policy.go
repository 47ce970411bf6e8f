package domain

// Capability names a single guarded action inside a company.
type Capability string

const (
	CapCreateEntry   Capability = "CREATE_ENTRY"
	CapEditOwnEntry  Capability = "EDIT_OWN_ENTRY"
	CapSubmitEntry   Capability = "SUBMIT_ENTRY"
	CapDecideEntry   Capability = "DECIDE_ENTRY" // approve or reject
	CapViewOwnStats  Capability = "VIEW_OWN_STATS"
	CapViewTeamStats Capability = "VIEW_TEAM_STATS"
	CapManageProject Capability = "MANAGE_PROJECT"
	CapManageMembers Capability = "MANAGE_MEMBERS"
)

// rolePolicy is the static role to capability table. Capabilities are
// additive; there is no deny rule. REMOVED members get nothing.
var rolePolicy = map[UserCompanyRole]map[Capability]bool{
	RoleAdmin: {
		CapCreateEntry:   true,
		CapEditOwnEntry:  true,
		CapSubmitEntry:   true,
		CapDecideEntry:   true,
		CapViewOwnStats:  true,
		CapViewTeamStats: true,
		CapManageProject: true,
		CapManageMembers: true,
	},
	RoleApprover: {
		CapCreateEntry:   true,
		CapEditOwnEntry:  true,
		CapSubmitEntry:   true,
		CapDecideEntry:   true,
		CapViewOwnStats:  true,
		CapViewTeamStats: true,
	},
	RoleMember: {
		CapCreateEntry:  true,
		CapEditOwnEntry: true,
		CapSubmitEntry:  true,
		CapViewOwnStats: true,
	},
}

// RoleCan reports whether a role carries a capability.
func RoleCan(role UserCompanyRole, cap Capability) bool {
	return rolePolicy[role][cap]
}
