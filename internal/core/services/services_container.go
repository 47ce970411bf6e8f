package services

import (
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first since it is everyone else's authorizer
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Project = NewProjectService(repos.ProjectRepo, authorizer)
	container.Entry = NewEntryService(repos.EntryRepo, repos.ProjectRepo, authorizer)
	container.Stats = NewStatsService(repos.StatsRepo, authorizer)

	container.Token = NewTokenService(cfg, container.User)
	container.OAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile time interface implementation checks
var (
	_ portssvc.CompanySvcFacade = (*CompanyService)(nil)
	_ portssvc.UserSvcFacade    = (*UserService)(nil)
	_ portssvc.ProjectSvcFacade = (*projectService)(nil)
	_ portssvc.EntrySvcFacade   = (*entryService)(nil)
	_ portssvc.StatsService     = (*statsService)(nil)
)
