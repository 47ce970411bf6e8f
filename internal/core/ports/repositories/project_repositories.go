package repositories

import (
	"context"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjectsByCompany retrieves all projects of a company, optionally including archived ones.
	ListProjectsByCompany(ctx context.Context, companyID string, includeArchived bool) ([]domain.Project, error)

	// FindTaskByID retrieves a specific task by its ID.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasksByProject retrieves all tasks of a project.
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject updates an existing project's details, including its archived flag.
	UpdateProject(ctx context.Context, project domain.Project) error

	// SaveTask persists a new task under a project.
	SaveTask(ctx context.Context, task domain.Task) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
// This is a facade for clients that need access to all operations
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
