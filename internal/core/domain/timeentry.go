package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the workflow state of a time entry.
type EntryStatus string

const (
	StatusDraft     EntryStatus = "DRAFT"
	StatusSubmitted EntryStatus = "SUBMITTED"
	StatusApproved  EntryStatus = "APPROVED"
	StatusRejected  EntryStatus = "REJECTED"
)

// MinDurationHours is the smallest loggable increment (a quarter hour).
var MinDurationHours = decimal.NewFromFloat(0.25)

// MinDescriptionLen is the minimum description length enforced on create/update.
const MinDescriptionLen = 3

// TimeEntry represents a single unit of logged work time against a project/task.
type TimeEntry struct {
	EntryID   string  `json:"entryID"` // Primary Key (e.g., UUID)
	CompanyID string  `json:"companyID"`
	ProjectID string  `json:"projectID"`
	TaskID    *string `json:"taskID,omitempty"`
	UserID    string  `json:"userID"` // Owning user

	Description   string          `json:"description"`
	DurationHours decimal.Decimal `json:"durationHours"` // Minimum granularity 0.25
	WorkDate      time.Time       `json:"workDate"`
	Billable      bool            `json:"billable"`
	// BillRate may be set independent of the billable flag.
	BillRate *decimal.Decimal `json:"billRate,omitempty"`

	Status EntryStatus `json:"status"`
	// ApproverID and DecidedAt are set only when status is APPROVED or REJECTED.
	ApproverID *string    `json:"approverID,omitempty"`
	DecidedAt  *time.Time `json:"decidedAt,omitempty"`
	// RejectionReason is required while status is REJECTED and cleared otherwise.
	RejectionReason *string `json:"rejectionReason,omitempty"`

	AuditFields

	// Read-side display fields populated by list joins; never persisted from here.
	ProjectName string `json:"projectName,omitempty"`
	OwnerName   string `json:"ownerName,omitempty"`
}

// EntryFilter narrows entry listings and stat aggregations. Nil fields
// mean "no constraint". CompanyID is always required.
type EntryFilter struct {
	CompanyID string
	UserID    *string
	ProjectID *string
	Status    *EntryStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

// IsEditable reports whether content fields may still be changed.
// Submitted and Approved entries are immutable to content edits.
func (e *TimeEntry) IsEditable() bool {
	return e.Status == StatusDraft || e.Status == StatusRejected
}

// IsDeletable reports whether the entry may be removed through the engine.
func (e *TimeEntry) IsDeletable() bool {
	return e.Status == StatusDraft
}
