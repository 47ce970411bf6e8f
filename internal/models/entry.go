package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the workflow state of a time entry row.
type EntryStatus string

const (
	EntryDraft     EntryStatus = "DRAFT"
	EntrySubmitted EntryStatus = "SUBMITTED"
	EntryApproved  EntryStatus = "APPROVED"
	EntryRejected  EntryStatus = "REJECTED"
)

// TimeEntry represents a logged unit of work time.
type TimeEntry struct {
	EntryID   string  `json:"entryID" db:"entry_id"`
	CompanyID string  `json:"companyID" db:"company_id"`
	ProjectID string  `json:"projectID" db:"project_id"`
	TaskID    *string `json:"taskID,omitempty" db:"task_id"`
	UserID    string  `json:"userID" db:"user_id"`

	Description   string           `json:"description" db:"description"`
	DurationHours decimal.Decimal  `json:"durationHours" db:"duration_hours"`
	WorkDate      time.Time        `json:"workDate" db:"work_date"`
	Billable      bool             `json:"billable" db:"billable"`
	BillRate      *decimal.Decimal `json:"billRate,omitempty" db:"bill_rate"`

	Status          EntryStatus `json:"status" db:"status"`
	ApproverID      *string     `json:"approverID,omitempty" db:"approver_id"`
	DecidedAt       *time.Time  `json:"decidedAt,omitempty" db:"decided_at"`
	RejectionReason *string     `json:"rejectionReason,omitempty" db:"rejection_reason"`

	AuditFields

	// Populated only by list joins; not columns of the entries table.
	ProjectName string `json:"projectName,omitempty" db:"project_name"`
	OwnerName   string `json:"ownerName,omitempty" db:"owner_name"`
}
