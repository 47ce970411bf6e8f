package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	projectRepo := newPgxProjectRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool)
	statsRepo := newStatsRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:    userRepo,
		CompanyRepo: companyRepo,
		ProjectRepo: projectRepo,
		EntryRepo:   entryRepo,
		StatsRepo:   statsRepo,
	}
}
