package domain

import "github.com/shopspring/decimal"

// EntryStats is an on-demand aggregate over a set of time entries.
// BilledAmount covers only billable entries carrying a bill rate.
type EntryStats struct {
	TotalHours    decimal.Decimal `json:"totalHours"`
	BillableHours decimal.Decimal `json:"billableHours"`
	BilledAmount  decimal.Decimal `json:"billedAmount"`

	TotalEntries     int64 `json:"totalEntries"`
	DraftEntries     int64 `json:"draftEntries"`
	SubmittedEntries int64 `json:"submittedEntries"`
	ApprovedEntries  int64 `json:"approvedEntries"`
	RejectedEntries  int64 `json:"rejectedEntries"`
}
