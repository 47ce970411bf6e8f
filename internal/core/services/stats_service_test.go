package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/core/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// --- Mock StatsRepository ---
type MockStatsRepository struct {
	mock.Mock
}

var _ portsrepo.StatsRepository = (*MockStatsRepository)(nil)

func (m *MockStatsRepository) GetEntryStats(ctx context.Context, filter domain.EntryFilter) (*domain.EntryStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryStats), args.Error(1)
}

// --- Test Suite Setup ---
type StatsServiceTestSuite struct {
	suite.Suite
	mockStatsRepo  *MockStatsRepository
	mockAuthorizer *MockCompanyAuthorizer
	service        portssvc.StatsService
	companyID      string
	userID         string
}

func (suite *StatsServiceTestSuite) SetupTest() {
	suite.mockStatsRepo = new(MockStatsRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.service = services.NewStatsService(suite.mockStatsRepo, suite.mockAuthorizer)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *StatsServiceTestSuite) sampleStats() *domain.EntryStats {
	return &domain.EntryStats{
		TotalHours:       decimal.NewFromFloat(37.5),
		BillableHours:    decimal.NewFromFloat(30.25),
		BilledAmount:     decimal.NewFromFloat(2420),
		TotalEntries:     18,
		DraftEntries:     2,
		SubmittedEntries: 5,
		ApprovedEntries:  10,
		RejectedEntries:  1,
	}
}

func (suite *StatsServiceTestSuite) TestGetUserStats_ScopesToCaller() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.CapViewOwnStats).Return(domain.RoleMember, nil).Once()
	suite.mockStatsRepo.On("GetEntryStats", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.CompanyID == suite.companyID && f.UserID != nil && *f.UserID == suite.userID
	})).Return(suite.sampleStats(), nil).Once()

	stats, err := suite.service.GetUserStats(ctx, suite.companyID, suite.userID, dto.StatsParams{})

	suite.Require().NoError(err)
	suite.True(stats.TotalHours.Equal(decimal.NewFromFloat(37.5)))
	suite.Equal(int64(18), stats.TotalEntries)
	suite.mockStatsRepo.AssertExpectations(suite.T())
}

func (suite *StatsServiceTestSuite) TestGetUserStats_OtherUserForbidden() {
	ctx := context.Background()
	otherUser := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.CapViewOwnStats).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.GetUserStats(ctx, suite.companyID, suite.userID, dto.StatsParams{UserID: &otherUser})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStatsRepo.AssertNotCalled(suite.T(), "GetEntryStats", mock.Anything, mock.Anything)
}

func (suite *StatsServiceTestSuite) TestGetCompanyStats_RequiresTeamAccess() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.CapViewTeamStats).Return(domain.UserCompanyRole(""), apperrors.ErrForbidden).Once()

	_, err := suite.service.GetCompanyStats(ctx, suite.companyID, suite.userID, dto.StatsParams{})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *StatsServiceTestSuite) TestGetCompanyStats_FilterPassthrough() {
	ctx := context.Background()
	projectID := uuid.NewString()
	status := "APPROVED"

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.CapViewTeamStats).Return(domain.RoleApprover, nil).Once()
	suite.mockStatsRepo.On("GetEntryStats", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.ProjectID != nil && *f.ProjectID == projectID &&
			f.Status != nil && *f.Status == domain.StatusApproved &&
			f.UserID == nil
	})).Return(suite.sampleStats(), nil).Once()

	stats, err := suite.service.GetCompanyStats(ctx, suite.companyID, suite.userID, dto.StatsParams{ProjectID: &projectID, Status: &status})

	suite.Require().NoError(err)
	suite.Equal(int64(10), stats.ApprovedEntries)
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}
