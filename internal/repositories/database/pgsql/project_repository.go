package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	"github.com/tempusworks/timesheet_app/internal/models"
	"github.com/tempusworks/timesheet_app/internal/utils/mapping"
)

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(db *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxProjectRepository implements portsrepo.ProjectRepositoryFacade
var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	modelProject := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (project_id, company_id, name, description, is_archived, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelProject.ProjectID,
		modelProject.CompanyID,
		modelProject.Name,
		modelProject.Description,
		modelProject.IsArchived,
		modelProject.CreatedAt,
		modelProject.CreatedBy,
		modelProject.LastUpdatedAt,
		modelProject.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `
		SELECT project_id, company_id, name, description, is_archived, created_at, created_by, last_updated_at, last_updated_by
		FROM projects
		WHERE project_id = $1;
	`
	var m models.Project
	err := r.Pool.QueryRow(ctx, query, projectID).Scan(
		&m.ProjectID,
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.IsArchived,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project by ID %s: %w", projectID, err)
	}

	domainProject := mapping.ToDomainProject(m)
	return &domainProject, nil
}

func (r *PgxProjectRepository) ListProjectsByCompany(ctx context.Context, companyID string, includeArchived bool) ([]domain.Project, error) {
	query := `
		SELECT project_id, company_id, name, description, is_archived, created_at, created_by, last_updated_at, last_updated_by
		FROM projects
		WHERE company_id = $1 AND ($2 OR NOT is_archived)
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var modelProjects []models.Project
	for rows.Next() {
		var m models.Project
		if err := rows.Scan(
			&m.ProjectID,
			&m.CompanyID,
			&m.Name,
			&m.Description,
			&m.IsArchived,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		modelProjects = append(modelProjects, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return mapping.ToDomainProjectSlice(modelProjects), nil
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	modelProject := mapping.ToModelProject(project)
	query := `
		UPDATE projects
		SET name = $2,
		    description = $3,
		    is_archived = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE project_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelProject.ProjectID,
		modelProject.Name,
		modelProject.Description,
		modelProject.IsArchived,
		modelProject.LastUpdatedAt,
		modelProject.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", modelProject.ProjectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	modelTask := mapping.ToModelTask(task)
	query := `
		INSERT INTO tasks (task_id, project_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTask.TaskID,
		modelTask.ProjectID,
		modelTask.Name,
		modelTask.CreatedAt,
		modelTask.CreatedBy,
		modelTask.LastUpdatedAt,
		modelTask.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *PgxProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `
		SELECT task_id, project_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM tasks
		WHERE task_id = $1;
	`
	var m models.Task
	err := r.Pool.QueryRow(ctx, query, taskID).Scan(
		&m.TaskID,
		&m.ProjectID,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task by ID %s: %w", taskID, err)
	}

	domainTask := mapping.ToDomainTask(m)
	return &domainTask, nil
}

func (r *PgxProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `
		SELECT task_id, project_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var modelTasks []models.Task
	for rows.Next() {
		var m models.Task
		if err := rows.Scan(
			&m.TaskID,
			&m.ProjectID,
			&m.Name,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		modelTasks = append(modelTasks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return mapping.ToDomainTaskSlice(modelTasks), nil
}
