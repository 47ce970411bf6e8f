package services_test

import (
	"context"
	"testing"
	"time"

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

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockEntryRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimeEntry, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TimeEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.TimeEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		returnedNextToken = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.TimeEntry), returnedNextToken, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry domain.TimeEntry, expected domain.EntryStatus) error {
	args := m.Called(ctx, entry, expected)
	return args.Error(0)
}

func (m *MockEntryRepository) CompareAndSwapStatus(ctx context.Context, entryID string, expected, target domain.EntryStatus, fields portsrepo.StatusFields, updatedByUserID string, updatedAt time.Time) (bool, error) {
	args := m.Called(ctx, entryID, expected, target, fields, updatedByUserID, updatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

var _ portsrepo.ProjectRepositoryFacade = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjectsByCompany(ctx context.Context, companyID string, includeArchived bool) ([]domain.Project, error) {
	args := m.Called(ctx, companyID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// --- Mock CompanyAuthorizer ---
type MockCompanyAuthorizer struct {
	mock.Mock
}

var _ portssvc.CompanyAuthorizerSvc = (*MockCompanyAuthorizer)(nil)

func (m *MockCompanyAuthorizer) AuthorizeUserAction(ctx context.Context, userID, companyID string, capability domain.Capability) (domain.UserCompanyRole, error) {
	args := m.Called(ctx, userID, companyID, capability)
	return args.Get(0).(domain.UserCompanyRole), args.Error(1)
}

// --- Test Suite Setup ---
type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockProjectRepo *MockProjectRepository
	mockAuthorizer  *MockCompanyAuthorizer
	service         portssvc.EntrySvcFacade
	companyID       string
	ownerID         string
	approverID      string
	project         domain.Project
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockProjectRepo, suite.mockAuthorizer)

	suite.companyID = uuid.NewString()
	suite.ownerID = uuid.NewString()
	suite.approverID = uuid.NewString()

	suite.project = domain.Project{
		ProjectID: uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Website Redesign",
	}
}

func (suite *EntryServiceTestSuite) draftEntry() domain.TimeEntry {
	return domain.TimeEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     suite.companyID,
		ProjectID:     suite.project.ProjectID,
		UserID:        suite.ownerID,
		Description:   "Implemented login flow",
		DurationHours: decimal.NewFromFloat(1.5),
		WorkDate:      time.Now(),
		Status:        domain.StatusDraft,
	}
}

func (suite *EntryServiceTestSuite) submittedEntry() domain.TimeEntry {
	e := suite.draftEntry()
	e.Status = domain.StatusSubmitted
	return e
}

// --- CreateEntry ---

func (suite *EntryServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Wrote repository tests",
		DurationHours: decimal.NewFromFloat(2.25),
		WorkDate:      time.Now(),
		Billable:      true,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.EntryID)
	suite.Equal(domain.StatusDraft, created.Status)
	suite.Equal(suite.ownerID, created.UserID)
	suite.Equal(suite.ownerID, created.CreatedBy)
	suite.Nil(created.ApproverID)

	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_DurationBelowMinimum() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Too small to log",
		DurationHours: decimal.NewFromFloat(0.24),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_MinimumDurationAccepted() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Quarter hour of standup",
		DurationHours: decimal.NewFromFloat(0.25),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().NoError(err)
	suite.True(created.DurationHours.Equal(decimal.NewFromFloat(0.25)))
}

func (suite *EntryServiceTestSuite) TestCreateEntry_LongDurationAccepted() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Release weekend on call",
		DurationHours: decimal.NewFromFloat(24.25),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().NoError(err)
	suite.True(created.DurationHours.Equal(decimal.NewFromFloat(24.25)))
}

func (suite *EntryServiceTestSuite) TestCreateEntry_DurationNotQuarterMultiple() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Oddly sized entry",
		DurationHours: decimal.NewFromFloat(1.3),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ArchivedProjectRejected() {
	ctx := context.Background()
	archived := suite.project
	archived.IsArchived = true
	req := dto.CreateEntryRequest{
		ProjectID:     archived.ProjectID,
		Description:   "Work on a closed project",
		DurationHours: decimal.NewFromInt(1),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.RoleMember, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, archived.ProjectID).Return(&archived, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_AuthorizationFail() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		ProjectID:     suite.project.ProjectID,
		Description:   "Should never be saved",
		DurationHours: decimal.NewFromInt(1),
		WorkDate:      time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapCreateEntry).Return(domain.UserCompanyRole(""), apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

// --- ListEntries ---

func (suite *EntryServiceTestSuite) TestListEntries_MemberScopedToOwnEntries() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapViewOwnStats).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("ListEntries", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.UserID != nil && *f.UserID == suite.ownerID
	}), 20, (*string)(nil)).Return([]domain.TimeEntry{}, (*string)(nil), nil).Once()

	_, err := suite.service.ListEntries(ctx, suite.companyID, suite.ownerID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestListEntries_MemberCannotFilterToOtherUser() {
	ctx := context.Background()
	other := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapViewOwnStats).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.ListEntries(ctx, suite.companyID, suite.ownerID, dto.ListEntriesParams{UserID: &other})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestListEntries_ApproverSeesWholeCompany() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapViewOwnStats).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("ListEntries", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.UserID == nil
	}), 20, (*string)(nil)).Return([]domain.TimeEntry{}, (*string)(nil), nil).Once()

	_, err := suite.service.ListEntries(ctx, suite.companyID, suite.approverID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

// --- UpdateEntry ---

func (suite *EntryServiceTestSuite) TestUpdateEntry_SubmittedIsImmutable() {
	ctx := context.Background()
	entry := suite.submittedEntry()
	newDesc := "Attempted edit"

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapEditOwnEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&entry, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_RejectedReturnsToDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.StatusRejected
	reason := "Needs more detail"
	entry.RejectionReason = &reason
	entry.ApproverID = &suite.approverID
	decidedAt := time.Now().Add(-time.Hour)
	entry.DecidedAt = &decidedAt

	newDesc := "Implemented login flow with validation and error states"

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapEditOwnEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&entry, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	// The write must be conditioned on the status read at load time, not the
	// redrafted one.
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.TimeEntry"), domain.StatusRejected).Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, updated.Status)
	suite.Nil(updated.RejectionReason)
	suite.Nil(updated.ApproverID)
	suite.Nil(updated.DecidedAt)
	suite.Equal(newDesc, updated.Description)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_ConcurrentTransitionConflict() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.StatusRejected
	newDesc := "Edited after the entry was already resubmitted"

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapEditOwnEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&entry, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	// A submit won the race between the read and the write, so the conditional
	// update matches no row.
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.TimeEntry"), domain.StatusRejected).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_NonOwnerForbidden() {
	ctx := context.Background()
	entry := suite.draftEntry()
	newDesc := "Someone else's edit"

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapEditOwnEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&entry, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.approverID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

// --- DeleteEntry ---

func (suite *EntryServiceTestSuite) TestDeleteEntry_OnlyDraft() {
	ctx := context.Background()
	entry := suite.submittedEntry()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapEditOwnEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.companyID, entry.EntryID, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

// --- SubmitEntries ---

func (suite *EntryServiceTestSuite) TestSubmitEntries_MixedBatch() {
	ctx := context.Background()
	draft := suite.draftEntry()
	alreadySubmitted := suite.submittedEntry()
	someoneElses := suite.draftEntry()
	someoneElses.UserID = suite.approverID
	missingID := uuid.NewString()

	ids := []string{draft.EntryID, alreadySubmitted.EntryID, someoneElses.EntryID, missingID}
	found := map[string]domain.TimeEntry{
		draft.EntryID:            draft,
		alreadySubmitted.EntryID: alreadySubmitted,
		someoneElses.EntryID:     someoneElses,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapSubmitEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, draft.EntryID, domain.StatusDraft, domain.StatusSubmitted, mock.AnythingOfType("repositories.StatusFields"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.SubmitEntries(ctx, suite.companyID, ids, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal([]string{draft.EntryID}, result.Succeeded)
	suite.Require().Len(result.Failed, 3)

	reasons := map[string]dto.BatchFailureReason{}
	for _, f := range result.Failed {
		reasons[f.EntryID] = f.Reason
	}
	suite.Equal(dto.BatchReasonStateError, reasons[alreadySubmitted.EntryID])
	suite.Equal(dto.BatchReasonOwnershipMismatch, reasons[someoneElses.EntryID])
	suite.Equal(dto.BatchReasonNotFound, reasons[missingID])

	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestSubmitEntries_ResubmitRejected() {
	ctx := context.Background()
	rejected := suite.draftEntry()
	rejected.Status = domain.StatusRejected

	ids := []string{rejected.EntryID}
	found := map[string]domain.TimeEntry{rejected.EntryID: rejected}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapSubmitEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, rejected.EntryID, domain.StatusRejected, domain.StatusSubmitted, mock.AnythingOfType("repositories.StatusFields"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.SubmitEntries(ctx, suite.companyID, ids, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal([]string{rejected.EntryID}, result.Succeeded)
	suite.Empty(result.Failed)
}

func (suite *EntryServiceTestSuite) TestSubmitEntries_DuplicateIDsConflict() {
	ctx := context.Background()
	draft := suite.draftEntry()

	ids := []string{draft.EntryID, draft.EntryID}
	found := map[string]domain.TimeEntry{draft.EntryID: draft}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapSubmitEntry).Return(domain.RoleMember, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, draft.EntryID, domain.StatusDraft, domain.StatusSubmitted, mock.AnythingOfType("repositories.StatusFields"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.SubmitEntries(ctx, suite.companyID, ids, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal([]string{draft.EntryID}, result.Succeeded)
	suite.Require().Len(result.Failed, 1)
	suite.Equal(dto.BatchReasonConcurrencyConflict, result.Failed[0].Reason)
}

// --- ApproveEntries ---

func (suite *EntryServiceTestSuite) TestApproveEntries_Success() {
	ctx := context.Background()
	submitted := suite.submittedEntry()

	ids := []string{submitted.EntryID}
	found := map[string]domain.TimeEntry{submitted.EntryID: submitted}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, submitted.EntryID, domain.StatusSubmitted, domain.StatusApproved, mock.MatchedBy(func(f portsrepo.StatusFields) bool {
		return f.ApproverID != nil && *f.ApproverID == suite.approverID && f.DecidedAt != nil && f.RejectionReason == nil
	}), suite.approverID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.ApproveEntries(ctx, suite.companyID, suite.ownerID, ids, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal([]string{submitted.EntryID}, result.Succeeded)
	suite.Empty(result.Failed)
}

func (suite *EntryServiceTestSuite) TestApproveEntries_MemberForbidden() {
	ctx := context.Background()
	ids := []string{uuid.NewString()}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.ownerID, suite.companyID, domain.CapDecideEntry).Return(domain.UserCompanyRole(""), apperrors.ErrForbidden).Once()

	_, err := suite.service.ApproveEntries(ctx, suite.companyID, suite.ownerID, ids, suite.ownerID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntriesByIDs", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestApproveEntries_OwnershipMismatch() {
	ctx := context.Background()
	submitted := suite.submittedEntry()
	otherOwner := uuid.NewString()

	ids := []string{submitted.EntryID}
	found := map[string]domain.TimeEntry{submitted.EntryID: submitted}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()

	result, err := suite.service.ApproveEntries(ctx, suite.companyID, otherOwner, ids, suite.approverID)

	suite.Require().NoError(err)
	suite.Empty(result.Succeeded)
	suite.Require().Len(result.Failed, 1)
	suite.Equal(dto.BatchReasonOwnershipMismatch, result.Failed[0].Reason)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "CompareAndSwapStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestApproveEntries_SelfApprovalBlocked() {
	ctx := context.Background()
	own := suite.submittedEntry()
	own.UserID = suite.approverID

	ids := []string{own.EntryID}
	found := map[string]domain.TimeEntry{own.EntryID: own}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()

	result, err := suite.service.ApproveEntries(ctx, suite.companyID, suite.approverID, ids, suite.approverID)

	suite.Require().NoError(err)
	suite.Empty(result.Succeeded)
	suite.Require().Len(result.Failed, 1)
	suite.Equal(dto.BatchReasonAuthorizationError, result.Failed[0].Reason)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "CompareAndSwapStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestApproveEntries_ConcurrentDecisionHasOneWinner() {
	ctx := context.Background()
	submitted := suite.submittedEntry()
	secondApprover := uuid.NewString()

	ids := []string{submitted.EntryID}
	found := map[string]domain.TimeEntry{submitted.EntryID: submitted}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, secondApprover, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Twice()
	// The first swap wins; the second sees the status already changed.
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, submitted.EntryID, domain.StatusSubmitted, domain.StatusApproved, mock.AnythingOfType("repositories.StatusFields"), suite.approverID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, submitted.EntryID, domain.StatusSubmitted, domain.StatusApproved, mock.AnythingOfType("repositories.StatusFields"), secondApprover, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	first, err := suite.service.ApproveEntries(ctx, suite.companyID, suite.ownerID, ids, suite.approverID)
	suite.Require().NoError(err)
	suite.Equal([]string{submitted.EntryID}, first.Succeeded)

	second, err := suite.service.ApproveEntries(ctx, suite.companyID, suite.ownerID, ids, secondApprover)
	suite.Require().NoError(err)
	suite.Empty(second.Succeeded)
	suite.Require().Len(second.Failed, 1)
	suite.Equal(dto.BatchReasonConcurrencyConflict, second.Failed[0].Reason)
}

// --- RejectEntries ---

func (suite *EntryServiceTestSuite) TestRejectEntries_Success() {
	ctx := context.Background()
	submitted := suite.submittedEntry()
	reason := "Missing task reference"

	ids := []string{submitted.EntryID}
	found := map[string]domain.TimeEntry{submitted.EntryID: submitted}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, submitted.EntryID, domain.StatusSubmitted, domain.StatusRejected, mock.MatchedBy(func(f portsrepo.StatusFields) bool {
		return f.RejectionReason != nil && *f.RejectionReason == reason
	}), suite.approverID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.RejectEntries(ctx, suite.companyID, suite.ownerID, ids, reason, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal([]string{submitted.EntryID}, result.Succeeded)
}

func (suite *EntryServiceTestSuite) TestRejectEntries_ReasonRequired() {
	ctx := context.Background()
	ids := []string{uuid.NewString()}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()

	_, err := suite.service.RejectEntries(ctx, suite.companyID, suite.ownerID, ids, "", suite.approverID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntriesByIDs", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestRejectEntries_ShortReasonAccepted() {
	ctx := context.Background()
	submitted := suite.submittedEntry()
	reason := "no"
	ids := []string{submitted.EntryID}
	found := map[string]domain.TimeEntry{submitted.EntryID: submitted}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.approverID, suite.companyID, domain.CapDecideEntry).Return(domain.RoleApprover, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByIDs", ctx, ids).Return(found, nil).Once()
	suite.mockEntryRepo.On("CompareAndSwapStatus", ctx, submitted.EntryID, domain.StatusSubmitted, domain.StatusRejected, mock.MatchedBy(func(f portsrepo.StatusFields) bool {
		return f.RejectionReason != nil && *f.RejectionReason == reason
	}), suite.approverID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.RejectEntries(ctx, suite.companyID, suite.ownerID, ids, reason, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal([]string{submitted.EntryID}, result.Succeeded)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
