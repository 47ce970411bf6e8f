package domain

import "time"

// Company represents an isolated tenant containing users, projects and time entries.
type Company struct {
	CompanyID   string `json:"companyID"` // Primary Key (e.g., UUID)
	Name        string `json:"name"`
	Description string `json:"description"` // Optional description
	IsActive    bool   `json:"isActive"`    // Indicates whether the company is active or disabled
	AuditFields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleApprover UserCompanyRole = "APPROVER" // Reviews and approves/rejects submitted entries
	RoleMember   UserCompanyRole = "MEMBER"   // Individual contributor: manages own entries up through submission
	RoleRemoved  UserCompanyRole = "REMOVED"  // For users who have been removed from the company
)

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`   // FK -> users.user_id
	UserName  string          `json:"userName"` // Name of the user
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}
