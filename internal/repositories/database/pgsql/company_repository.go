package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	"github.com/tempusworks/timesheet_app/internal/models"
	"github.com/tempusworks/timesheet_app/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(db *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryWithTx
var _ portsrepo.CompanyRepositoryWithTx = (*PgxCompanyRepository)(nil)

// CreateCompanyWithAdmin inserts the company row and the creator's admin
// membership within a DB transaction.
func (r *PgxCompanyRepository) CreateCompanyWithAdmin(ctx context.Context, company domain.Company, membership domain.UserCompany) error {
	modelCompany := mapping.ToModelCompany(company)
	modelMembership := mapping.ToModelUserCompany(membership)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	companyQuery := `
		INSERT INTO companies (company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, companyQuery,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.Description,
		modelCompany.IsActive,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert company %s: %w", modelCompany.CompanyID, err)
	}

	membershipQuery := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, membershipQuery,
		modelMembership.UserID,
		modelMembership.CompanyID,
		modelMembership.Role,
		modelMembership.JoinedAt,
		modelMembership.CreatedAt,
		modelMembership.CreatedBy,
		modelMembership.LastUpdatedAt,
		modelMembership.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin membership for company %s: %w", modelCompany.CompanyID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.Description,
		modelCompany.IsActive,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(m)
	return &domainCompany, nil
}

func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.description, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role != $2
		ORDER BY c.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(domain.RoleRemoved))
	if err != nil {
		return nil, fmt.Errorf("failed to query companies for user %s: %w", userID, err)
	}
	defer rows.Close()

	var modelCompanies []models.Company
	for rows.Next() {
		var m models.Company
		if err := rows.Scan(
			&m.CompanyID,
			&m.Name,
			&m.Description,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		modelCompanies = append(modelCompanies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return mapping.ToDomainCompanySlice(modelCompanies), nil
}

func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	modelMembership := mapping.ToModelUserCompany(membership)
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, company_id) DO UPDATE SET
			role = EXCLUDED.role,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMembership.UserID,
		modelMembership.CompanyID,
		modelMembership.Role,
		modelMembership.JoinedAt,
		modelMembership.CreatedAt,
		modelMembership.CreatedBy,
		modelMembership.LastUpdatedAt,
		modelMembership.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to add user %s to company %s: %w", membership.UserID, membership.CompanyID, err)
	}
	return nil
}

func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, uc.company_id, uc.role, uc.joined_at, u.name
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.user_id = $1 AND uc.company_id = $2;
	`
	var membership domain.UserCompany
	var role string
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(
		&membership.UserID,
		&membership.CompanyID,
		&role,
		&membership.JoinedAt,
		&membership.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership of user %s in company %s: %w", userID, companyID, err)
	}

	membership.Role = domain.UserCompanyRole(role)
	return &membership, nil
}

func (r *PgxCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole, updatedByUserID string) error {
	query := `
		UPDATE user_companies
		SET role = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE user_id = $1 AND company_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, companyID, string(role), time.Now(), updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update role of user %s in company %s: %w", userID, companyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
