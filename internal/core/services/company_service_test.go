package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/core/services"
)

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) CreateCompanyWithAdmin(ctx context.Context, company domain.Company, membership domain.UserCompany) error {
	args := m.Called(ctx, company, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCompany), args.Error(1)
}

func (m *MockCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole, updatedByUserID string) error {
	args := m.Called(ctx, userID, companyID, role, updatedByUserID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type CompanyServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockCompanyRepository
	service   portssvc.CompanySvcFacade
	companyID string
	adminID   string
	memberID  string
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompanyRepository)
	suite.service = services.NewCompanyService(suite.mockRepo)

	suite.companyID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.memberID = uuid.NewString()
}

func (suite *CompanyServiceTestSuite) membership(userID string, role domain.UserCompanyRole) *domain.UserCompany {
	return &domain.UserCompany{
		UserID:    userID,
		CompanyID: suite.companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_CreatorBecomesAdmin() {
	ctx := context.Background()

	suite.mockRepo.On("CreateCompanyWithAdmin", ctx, mock.AnythingOfType("domain.Company"), mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == suite.adminID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, "Tempus Works", "Consulting", suite.adminID)

	suite.Require().NoError(err)
	suite.NotEmpty(company.CompanyID)
	suite.True(company.IsActive)
	suite.Equal(suite.adminID, company.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_AtomicFailureReturnsError() {
	ctx := context.Background()

	suite.mockRepo.On("CreateCompanyWithAdmin", ctx, mock.AnythingOfType("domain.Company"), mock.AnythingOfType("domain.UserCompany")).Return(errors.New("tx aborted")).Once()

	_, err := suite.service.CreateCompany(ctx, "Tempus Works", "Consulting", suite.adminID)

	suite.Require().Error(err)
	// Company and membership go through the single transactional write only.
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddUserToCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RoleHasCapability() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.memberID, suite.companyID).Return(suite.membership(suite.memberID, domain.RoleMember), nil).Once()

	role, err := suite.service.AuthorizeUserAction(ctx, suite.memberID, suite.companyID, domain.CapSubmitEntry)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, role)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RoleLacksCapability() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.memberID, suite.companyID).Return(suite.membership(suite.memberID, domain.RoleMember), nil).Once()

	_, err := suite.service.AuthorizeUserAction(ctx, suite.memberID, suite.companyID, domain.CapDecideEntry)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_NonMemberHidden() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.memberID, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthorizeUserAction(ctx, suite.memberID, suite.companyID, domain.CapCreateEntry)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RemovedMemberHidden() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.memberID, suite.companyID).Return(suite.membership(suite.memberID, domain.RoleRemoved), nil).Once()

	_, err := suite.service.AuthorizeUserAction(ctx, suite.memberID, suite.companyID, domain.CapCreateEntry)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestRemoveUserFromCompany_SelfRemovalBlocked() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.adminID, suite.companyID).Return(suite.membership(suite.adminID, domain.RoleAdmin), nil).Once()

	err := suite.service.RemoveUserFromCompany(ctx, suite.adminID, suite.adminID, suite.companyID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUserCompanyRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestRemoveUserFromCompany_Success() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserCompanyRole", ctx, suite.adminID, suite.companyID).Return(suite.membership(suite.adminID, domain.RoleAdmin), nil).Once()
	suite.mockRepo.On("UpdateUserCompanyRole", ctx, suite.memberID, suite.companyID, domain.RoleRemoved, suite.adminID).Return(nil).Once()

	err := suite.service.RemoveUserFromCompany(ctx, suite.adminID, suite.memberID, suite.companyID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
