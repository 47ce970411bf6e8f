package repositories

import (
	"context"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
)

// StatsRepository defines operations for computing entry aggregates.
// Aggregation happens in the database; nothing is materialized.
type StatsRepository interface {
	// GetEntryStats computes totals over the entries matched by the filter.
	GetEntryStats(ctx context.Context, filter domain.EntryFilter) (*domain.EntryStats, error)
}
