package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
)

// StatsParams defines query parameters for a stats aggregation.
type StatsParams struct {
	UserID    *string    `form:"userID"`
	ProjectID *string    `form:"projectID"`
	Status    *string    `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// StatsResponse defines the data returned for a stats aggregation.
type StatsResponse struct {
	TotalHours       decimal.Decimal `json:"totalHours"`
	BillableHours    decimal.Decimal `json:"billableHours"`
	BilledAmount     decimal.Decimal `json:"billedAmount"`
	TotalEntries     int64           `json:"totalEntries"`
	DraftEntries     int64           `json:"draftEntries"`
	SubmittedEntries int64           `json:"submittedEntries"`
	ApprovedEntries  int64           `json:"approvedEntries"`
	RejectedEntries  int64           `json:"rejectedEntries"`
}

// ToStatsResponse converts domain.EntryStats to StatsResponse DTO.
func ToStatsResponse(s *domain.EntryStats) StatsResponse {
	return StatsResponse{
		TotalHours:       s.TotalHours,
		BillableHours:    s.BillableHours,
		BilledAmount:     s.BilledAmount,
		TotalEntries:     s.TotalEntries,
		DraftEntries:     s.DraftEntries,
		SubmittedEntries: s.SubmittedEntries,
		ApprovedEntries:  s.ApprovedEntries,
		RejectedEntries:  s.RejectedEntries,
	}
}
