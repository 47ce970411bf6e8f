package services

import (
	"context"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project by its ID.
	GetProjectByID(ctx context.Context, companyID string, projectID string, requestingUserID string) (*domain.Project, error)

	// ListProjects retrieves the projects of a company.
	ListProjects(ctx context.Context, companyID string, requestingUserID string, includeArchived bool) ([]domain.Project, error)

	// ListTasks retrieves the tasks of a project.
	ListTasks(ctx context.Context, companyID string, projectID string, requestingUserID string) ([]domain.Task, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a new project.
	CreateProject(ctx context.Context, companyID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)

	// UpdateProject updates a project's details.
	UpdateProject(ctx context.Context, companyID string, projectID string, req dto.UpdateProjectRequest, requestingUserID string) (*domain.Project, error)

	// ArchiveProject marks a project as archived. Archived projects reject new entries.
	ArchiveProject(ctx context.Context, companyID string, projectID string, requestingUserID string) error

	// CreateTask persists a new task under a project.
	CreateTask(ctx context.Context, companyID string, projectID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
