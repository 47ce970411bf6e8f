package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// projectService handles business logic for projects and their tasks.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewProjectService creates a new project service.
func NewProjectService(pr portsrepo.ProjectRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		projectRepo: pr,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// GetProjectByID retrieves a project, checking the caller is a company member.
func (s *projectService) GetProjectByID(ctx context.Context, companyID string, projectID string, requestingUserID string) (*domain.Project, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != companyID {
		// Do not leak existence of projects in other companies.
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

// ListProjects retrieves the projects of a company.
func (s *projectService) ListProjects(ctx context.Context, companyID string, requestingUserID string, includeArchived bool) ([]domain.Project, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListProjectsByCompany(ctx, companyID, includeArchived)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

// CreateProject persists a new project. Requires project management capability.
func (s *projectService) CreateProject(ctx context.Context, companyID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	if _, err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.CapManageProject); err != nil {
		return nil, err
	}

	now := time.Now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID), slog.String("company_id", companyID))
	return &project, nil
}

// UpdateProject updates a project's details.
func (s *projectService) UpdateProject(ctx context.Context, companyID string, projectID string, req dto.UpdateProjectRequest, requestingUserID string) (*domain.Project, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapManageProject); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	project.LastUpdatedAt = time.Now()
	project.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// ArchiveProject marks a project as archived. Archived projects reject new entries.
func (s *projectService) ArchiveProject(ctx context.Context, companyID string, projectID string, requestingUserID string) error {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapManageProject); err != nil {
		return err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	if project.IsArchived {
		return fmt.Errorf("project is already archived: %w", apperrors.ErrInvalidState)
	}

	project.IsArchived = true
	project.LastUpdatedAt = time.Now()
	project.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to archive project", slog.String("project_id", projectID))
		return fmt.Errorf("failed to archive project: %w", err)
	}

	s.LogInfo(ctx, "Project archived", slog.String("project_id", projectID))
	return nil
}

// CreateTask persists a new task under a project.
func (s *projectService) CreateTask(ctx context.Context, companyID string, projectID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error) {
	if _, err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.CapManageProject); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if project.IsArchived {
		return nil, fmt.Errorf("cannot add tasks to an archived project: %w", apperrors.ErrInvalidState)
	}

	now := time.Now()
	task := domain.Task{
		TaskID:    uuid.NewString(),
		ProjectID: projectID,
		Name:      req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

// ListTasks retrieves the tasks of a project.
func (s *projectService) ListTasks(ctx context.Context, companyID string, projectID string, requestingUserID string) ([]domain.Task, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	tasks, err := s.projectRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		return []domain.Task{}, nil
	}
	return tasks, nil
}
