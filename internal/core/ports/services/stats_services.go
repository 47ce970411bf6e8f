package services

import (
	"context"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// StatsService defines operations for computing time entry aggregates.
// Results are computed on demand; there is no materialized state.
type StatsService interface {
	// GetUserStats computes totals over the requesting user's own entries.
	GetUserStats(ctx context.Context, companyID string, requestingUserID string, params dto.StatsParams) (*domain.EntryStats, error)

	// GetCompanyStats computes totals over every entry in the company,
	// optionally narrowed to one user or project. Requires team stats access.
	GetCompanyStats(ctx context.Context, companyID string, requestingUserID string, params dto.StatsParams) (*domain.EntryStats, error)
}
