package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// statsService computes time entry aggregates on demand. The heavy lifting
// happens in the database; this layer only handles authorization and filter
// shaping.
type statsService struct {
	BaseService
	statsRepo portsrepo.StatsRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(sr portsrepo.StatsRepository, authorizer portssvc.CompanyAuthorizerSvc) portssvc.StatsService {
	return &statsService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		statsRepo:   sr,
	}
}

var _ portssvc.StatsService = (*statsService)(nil)

func buildStatsFilter(companyID string, params dto.StatsParams) domain.EntryFilter {
	filter := domain.EntryFilter{
		CompanyID: companyID,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
		DateFrom:  params.DateFrom,
		DateTo:    params.DateTo,
	}
	if params.Status != nil {
		status := domain.EntryStatus(*params.Status)
		filter.Status = &status
	}
	return filter
}

// GetUserStats computes totals over the requesting user's own entries.
func (s *statsService) GetUserStats(ctx context.Context, companyID string, requestingUserID string, params dto.StatsParams) (*domain.EntryStats, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats); err != nil {
		return nil, err
	}

	// Own stats are always scoped to the caller regardless of the filter.
	if params.UserID != nil && *params.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: cannot request another user's personal stats", apperrors.ErrForbidden)
	}
	params.UserID = &requestingUserID

	stats, err := s.statsRepo.GetEntryStats(ctx, buildStatsFilter(companyID, params))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute user stats", slog.String("company_id", companyID), slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// GetCompanyStats computes totals over every entry in the company, optionally
// narrowed to one user or project. Requires team stats access.
func (s *statsService) GetCompanyStats(ctx context.Context, companyID string, requestingUserID string, params dto.StatsParams) (*domain.EntryStats, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewTeamStats); err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.GetEntryStats(ctx, buildStatsFilter(companyID, params))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute company stats", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
