package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
)

// statsRepository implements the StatsRepository interface
type statsRepository struct {
	BaseRepository
}

// newStatsRepository creates a new stats repository
func newStatsRepository(db *pgxpool.Pool) portsrepo.StatsRepository {
	return &statsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetEntryStats computes entry aggregates with a single grouped query.
// COALESCE keeps the sums at zero when no rows match the filter.
func (r *statsRepository) GetEntryStats(ctx context.Context, filter domain.EntryFilter) (*domain.EntryStats, error) {
	args := []any{filter.CompanyID}
	whereClause := "WHERE e.company_id = $1"

	clause, args := buildEntryFilterClauses(filter, args)
	whereClause += clause

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(e.duration_hours), 0) AS total_hours,
			COALESCE(SUM(CASE WHEN e.billable THEN e.duration_hours ELSE 0 END), 0) AS billable_hours,
			COALESCE(SUM(CASE WHEN e.billable AND e.bill_rate IS NOT NULL THEN e.duration_hours * e.bill_rate ELSE 0 END), 0) AS billed_amount,
			COUNT(*) AS total_entries,
			COUNT(*) FILTER (WHERE e.status = 'DRAFT') AS draft_entries,
			COUNT(*) FILTER (WHERE e.status = 'SUBMITTED') AS submitted_entries,
			COUNT(*) FILTER (WHERE e.status = 'APPROVED') AS approved_entries,
			COUNT(*) FILTER (WHERE e.status = 'REJECTED') AS rejected_entries
		FROM time_entries e
		%s
	`, whereClause)

	var stats domain.EntryStats
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalHours,
		&stats.BillableHours,
		&stats.BilledAmount,
		&stats.TotalEntries,
		&stats.DraftEntries,
		&stats.SubmittedEntries,
		&stats.ApprovedEntries,
		&stats.RejectedEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying entry stats: %w", err)
	}

	return &stats, nil
}
