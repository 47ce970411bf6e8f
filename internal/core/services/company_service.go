package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/middleware"
)

// CompanyService handles business logic related to companies and memberships.
type CompanyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(cr portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &CompanyService{
		companyRepo: cr,
	}
}

// Ensure CompanyService implements the facade interface
var _ portssvc.CompanySvcFacade = (*CompanyService)(nil)

// CreateCompany creates a new company and makes the creator the initial admin.
func (s *CompanyService) CreateCompany(ctx context.Context, name, description, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	newCompanyID := uuid.NewString()

	company := domain.Company{
		CompanyID:   newCompanyID,
		Name:        name,
		Description: description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: newCompanyID,
		Role:      domain.RoleAdmin, // Creator is Admin
		JoinedAt:  now,
	}

	// Both rows land in one transaction so a failure cannot leave a company
	// without an admin.
	if err := s.companyRepo.CreateCompanyWithAdmin(ctx, company, membership); err != nil {
		logger.Error("Failed to create company with admin membership", slog.String("error", err.Error()), slog.String("company_name", name), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	logger.Info("Company created successfully", slog.String("company_id", newCompanyID), slog.String("creator_user_id", creatorUserID))
	return &company, nil
}

// GetCompanyByID retrieves a company by its ID.
func (s *CompanyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find company by ID in repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListUserCompanies retrieves the list of companies a given user belongs to.
func (s *CompanyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list companies for user from repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list companies for user %s: %w", userID, err)
	}

	if companies == nil {
		return []domain.Company{}, nil // Return empty slice, not nil
	}
	return companies, nil
}

// AddUserToCompany adds a user to a company with a specific role.
func (s *CompanyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.CapManageMembers); err != nil {
		return err
	}

	if role == domain.RoleRemoved {
		return fmt.Errorf("%w: cannot add a user with the REMOVED role", apperrors.ErrValidation)
	}

	now := time.Now()
	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  now,
	}

	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		logger.Error("Failed to add user to company in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
		return fmt.Errorf("failed to add user %s to company %s: %w", targetUserID, companyID, err)
	}

	logger.Info("User added to company successfully", slog.String("target_user_id", targetUserID), slog.String("company_id", companyID), slog.String("role", string(role)), slog.String("added_by_user_id", addingUserID))
	return nil
}

// RemoveUserFromCompany marks a member as removed. Only admins can do this.
func (s *CompanyService) RemoveUserFromCompany(ctx context.Context, requestingUserID, targetUserID, companyID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.CapManageMembers); err != nil {
		return err
	}

	if requestingUserID == targetUserID {
		return fmt.Errorf("%w: admins cannot remove themselves", apperrors.ErrValidation)
	}

	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, domain.RoleRemoved, requestingUserID); err != nil {
		logger.Error("Failed to remove user from company", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
		return err
	}

	logger.Info("User removed from company", slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
	return nil
}

// UpdateUserCompanyRole updates a user's role in a company. Only admins can do this.
func (s *CompanyService) UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.CapManageMembers); err != nil {
		return err
	}

	if newRole == domain.RoleRemoved {
		return fmt.Errorf("%w: use removal instead of assigning the REMOVED role", apperrors.ErrValidation)
	}

	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, newRole, requestingUserID); err != nil {
		logger.Error("Failed to update user company role", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("company_id", companyID))
		return err
	}

	logger.Info("User company role updated", slog.String("target_user_id", targetUserID), slog.String("company_id", companyID), slog.String("new_role", string(newRole)))
	return nil
}

// AuthorizeUserAction checks that a user is an active member of a company and
// that their role carries the given capability.
// Returns apperrors.ErrNotFound if the user is not a member at all.
// Returns apperrors.ErrForbidden if the member's role lacks the capability.
func (s *CompanyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, capability domain.Capability) (domain.UserCompanyRole, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user is not a member of the company", slog.String("user_id", userID), slog.String("company_id", companyID))
			// Return NotFound to avoid revealing company existence to non-members
			return "", apperrors.ErrNotFound
		}
		logger.Error("Failed to check user company role in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("company_id", companyID))
		return "", fmt.Errorf("failed to check authorization: %w", err)
	}

	if membership.Role == domain.RoleRemoved {
		logger.Warn("Authorization failed: membership is removed", slog.String("user_id", userID), slog.String("company_id", companyID))
		return "", apperrors.ErrNotFound
	}

	if !domain.RoleCan(membership.Role, capability) {
		logger.Warn("Authorization failed: role lacks capability", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("role", string(membership.Role)), slog.String("capability", string(capability)))
		return "", apperrors.ErrForbidden
	}

	return membership.Role, nil
}
