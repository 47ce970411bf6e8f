package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	"github.com/tempusworks/timesheet_app/internal/models"
	"github.com/tempusworks/timesheet_app/internal/utils/mapping"
	"github.com/tempusworks/timesheet_app/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(db *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `e.entry_id, e.company_id, e.project_id, e.task_id, e.user_id,
		e.description, e.duration_hours, e.work_date, e.billable, e.bill_rate,
		e.status, e.approver_id, e.decided_at, e.rejection_reason,
		e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

func scanEntryRow(row pgx.Row, withNames bool) (*models.TimeEntry, error) {
	var m models.TimeEntry
	dest := []any{
		&m.EntryID,
		&m.CompanyID,
		&m.ProjectID,
		&m.TaskID,
		&m.UserID,
		&m.Description,
		&m.DurationHours,
		&m.WorkDate,
		&m.Billable,
		&m.BillRate,
		&m.Status,
		&m.ApproverID,
		&m.DecidedAt,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
	if withNames {
		dest = append(dest, &m.ProjectName, &m.OwnerName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.TimeEntry) error {
	modelEntry := mapping.ToModelTimeEntry(entry)
	query := `
		INSERT INTO time_entries (entry_id, company_id, project_id, task_id, user_id,
			description, duration_hours, work_date, billable, bill_rate,
			status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.CompanyID,
		modelEntry.ProjectID,
		modelEntry.TaskID,
		modelEntry.UserID,
		modelEntry.Description,
		modelEntry.DurationHours,
		modelEntry.WorkDate,
		modelEntry.Billable,
		modelEntry.BillRate,
		modelEntry.Status,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save time entry: %w", err)
	}
	return nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.entry_id = $1;
	`
	modelEntry, err := scanEntryRow(r.Pool.QueryRow(ctx, query, entryID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time entry by ID %s: %w", entryID, err)
	}

	domainEntry := mapping.ToDomainTimeEntry(*modelEntry)
	return &domainEntry, nil
}

func (r *PgxEntryRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimeEntry, error) {
	if len(entryIDs) == 0 {
		return map[string]domain.TimeEntry{}, nil
	}

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.entry_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries by IDs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.TimeEntry, len(entryIDs))
	for rows.Next() {
		m, err := scanEntryRow(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		result[m.EntryID] = mapping.ToDomainTimeEntry(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entry rows: %w", err)
	}

	return result, nil
}

// buildEntryFilterClauses appends WHERE fragments and args for the optional
// filter fields. Argument numbering continues from the supplied args slice.
func buildEntryFilterClauses(filter domain.EntryFilter, args []any) (string, []any) {
	clause := ""
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clause += " AND e.user_id = $" + strconv.Itoa(len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clause += " AND e.project_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clause += " AND e.status = $" + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clause += " AND e.work_date >= $" + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clause += " AND e.work_date <= $" + strconv.Itoa(len(args))
	}
	return clause, args
}

func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.TimeEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether another page exists.
	fetchLimit := limit + 1

	args := []any{filter.CompanyID}
	whereClause := "WHERE e.company_id = $1"

	clause, args := buildEntryFilterClauses(filter, args)
	whereClause += clause

	if nextToken != nil && *nextToken != "" {
		workDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, workDate, createdAt)
		whereClause += fmt.Sprintf(" AND (e.work_date, e.created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query := fmt.Sprintf(`
		SELECT %s, p.name AS project_name, u.name AS owner_name
		FROM time_entries e
		JOIN projects p ON p.project_id = e.project_id
		JOIN users u ON u.user_id = e.user_id
		%s
		ORDER BY e.work_date DESC, e.created_at DESC
		LIMIT $%d;
	`, entryColumns, whereClause, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var modelEntries []models.TimeEntry
	for rows.Next() {
		m, err := scanEntryRow(rows, true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating time entry rows: %w", err)
	}

	var newNextToken *string
	if len(modelEntries) == fetchLimit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.WorkDate, last.CreatedAt)
		newNextToken = &token
		modelEntries = modelEntries[:limit]
	}

	return mapping.ToDomainTimeEntrySlice(modelEntries), newNextToken, nil
}

// UpdateEntry writes the content fields conditioned on the status read at load
// time, so an edit can never clobber a transition that won in between.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.TimeEntry, expected domain.EntryStatus) error {
	modelEntry := mapping.ToModelTimeEntry(entry)
	query := `
		UPDATE time_entries
		SET project_id = $2,
		    task_id = $3,
		    description = $4,
		    duration_hours = $5,
		    work_date = $6,
		    billable = $7,
		    bill_rate = $8,
		    status = $9,
		    approver_id = $10,
		    decided_at = $11,
		    rejection_reason = $12,
		    last_updated_at = $13,
		    last_updated_by = $14
		WHERE entry_id = $1 AND status = $15;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.ProjectID,
		modelEntry.TaskID,
		modelEntry.Description,
		modelEntry.DurationHours,
		modelEntry.WorkDate,
		modelEntry.Billable,
		modelEntry.BillRate,
		modelEntry.Status,
		modelEntry.ApproverID,
		modelEntry.DecidedAt,
		modelEntry.RejectionReason,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry %s: %w", modelEntry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The entry was loaded moments ago, so a zero row count means its
		// status moved (or it was deleted) under us.
		return fmt.Errorf("time entry %s changed since it was read: %w", modelEntry.EntryID, apperrors.ErrConflict)
	}
	return nil
}

// CompareAndSwapStatus performs the status transition as a single conditional
// UPDATE. The status predicate in the WHERE clause makes the swap atomic; a
// zero row count means another request moved the entry first.
func (r *PgxEntryRepository) CompareAndSwapStatus(ctx context.Context, entryID string, expected, target domain.EntryStatus, fields portsrepo.StatusFields, updatedByUserID string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE time_entries
		SET status = $3,
		    approver_id = $4,
		    decided_at = $5,
		    rejection_reason = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE entry_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		entryID,
		string(expected),
		string(target),
		fields.ApproverID,
		fields.DecidedAt,
		fields.RejectionReason,
		updatedAt,
		updatedByUserID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to swap status of time entry %s: %w", entryID, err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM time_entries WHERE entry_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
