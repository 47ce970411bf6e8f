package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
	"github.com/tempusworks/timesheet_app/internal/handlers"
	"github.com/tempusworks/timesheet_app/internal/middleware"
)

// --- Mock EntryService ---
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}
func (m *MockEntryService) GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, companyID, entryID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}
func (m *MockEntryService) ListEntries(ctx context.Context, companyID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockEntryService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}
func (m *MockEntryService) DeleteEntry(ctx context.Context, companyID string, entryID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, entryID, requestingUserID)
	return args.Error(0)
}
func (m *MockEntryService) SubmitEntries(ctx context.Context, companyID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error) {
	args := m.Called(ctx, companyID, entryIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchResult), args.Error(1)
}
func (m *MockEntryService) ApproveEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error) {
	args := m.Called(ctx, companyID, ownerUserID, entryIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchResult), args.Error(1)
}
func (m *MockEntryService) RejectEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, reason string, requestingUserID string) (*dto.BatchResult, error) {
	args := m.Called(ctx, companyID, ownerUserID, entryIDs, reason, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.EntrySvcFacade = (*MockEntryService)(nil)

// --- Test Suite ---
type EntryHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockEntryService *MockEntryService
	jwtSecret        string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *EntryHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "tta-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *EntryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockEntryService = new(MockEntryService)

	v1 := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterEntryRoutes(v1, suite.mockEntryService)
}

func (suite *EntryHandlerTestSuite) doJSON(method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			suite.FailNow("Failed to encode request body", err.Error())
		}
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *EntryHandlerTestSuite) TestCreateEntry_Success() {
	companyID := uuid.NewString()
	userID := uuid.NewString()
	projectID := uuid.NewString()

	reqBody := dto.CreateEntryRequest{
		ProjectID:     projectID,
		Description:   "Sprint planning",
		DurationHours: decimal.NewFromFloat(1.5),
		WorkDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Billable:      true,
	}

	expected := &domain.TimeEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     companyID,
		ProjectID:     projectID,
		UserID:        userID,
		Description:   reqBody.Description,
		DurationHours: reqBody.DurationHours,
		WorkDate:      reqBody.WorkDate,
		Billable:      true,
		Status:        domain.StatusDraft,
	}

	suite.mockEntryService.On("CreateEntry",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		mock.MatchedBy(func(r dto.CreateEntryRequest) bool {
			return r.ProjectID == projectID && r.DurationHours.Equal(reqBody.DurationHours)
		}),
		userID,
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries", companyID), userID, reqBody)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.EntryID, resp.EntryID)
	suite.Equal(domain.StatusDraft, resp.Status)

	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_ValidationErrorReturns400() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateEntryRequest{
		ProjectID:     uuid.NewString(),
		Description:   "Too granular",
		DurationHours: decimal.NewFromFloat(0.1),
		WorkDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	suite.mockEntryService.On("CreateEntry",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		mock.AnythingOfType("dto.CreateEntryRequest"),
		userID,
	).Return(nil, fmt.Errorf("%w: duration must be at least 0.25 hours", apperrors.ErrValidation)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries", companyID), userID, reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_MissingTokenReturns401() {
	companyID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries", companyID), bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockEntryService.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *EntryHandlerTestSuite) TestUpdateEntry_ImmutableReturns409() {
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	userID := uuid.NewString()

	desc := "Updated description"
	reqBody := dto.UpdateEntryRequest{Description: &desc}

	suite.mockEntryService.On("UpdateEntry",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		entryID,
		mock.AnythingOfType("dto.UpdateEntryRequest"),
		userID,
	).Return(nil, fmt.Errorf("%w: entry is submitted", apperrors.ErrInvalidState)).Once()

	w := suite.doJSON(http.MethodPut, fmt.Sprintf("/api/v1/companies/%s/entries/%s", companyID, entryID), userID, reqBody)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestSubmitEntries_MixedResult() {
	companyID := uuid.NewString()
	userID := uuid.NewString()
	okID := uuid.NewString()
	badID := uuid.NewString()

	reqBody := dto.BatchTransitionRequest{EntryIDs: []string{okID, badID}}

	expected := &dto.BatchResult{
		Succeeded: []string{okID},
		Failed: []dto.BatchFailure{
			{EntryID: badID, Reason: dto.BatchReasonStateError, Message: "entry is already submitted"},
		},
	}

	suite.mockEntryService.On("SubmitEntries",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		[]string{okID, badID},
		userID,
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries/submit", companyID), userID, reqBody)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BatchResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{okID}, resp.Succeeded)
	suite.Len(resp.Failed, 1)
	suite.Equal(dto.BatchReasonStateError, resp.Failed[0].Reason)

	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestSubmitEntries_EmptyBodyReturns400() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.BatchTransitionRequest{EntryIDs: []string{}}

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries/submit", companyID), userID, reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEntryService.AssertNotCalled(suite.T(), "SubmitEntries")
}

func (suite *EntryHandlerTestSuite) TestApproveEntries_ForbiddenReturns403() {
	companyID := uuid.NewString()
	userID := uuid.NewString()
	ownerID := uuid.NewString()
	entryID := uuid.NewString()

	reqBody := dto.ApproveEntriesRequest{OwnerUserID: ownerID, EntryIDs: []string{entryID}}

	suite.mockEntryService.On("ApproveEntries",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ownerID,
		[]string{entryID},
		userID,
	).Return(nil, fmt.Errorf("%w: role MEMBER cannot decide entries", apperrors.ErrForbidden)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries/approve", companyID), userID, reqBody)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestRejectEntries_ReasonRequired() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	// an empty reason is rejected at binding time
	reqBody := dto.RejectEntriesRequest{OwnerUserID: uuid.NewString(), EntryIDs: []string{uuid.NewString()}, Reason: ""}

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries/reject", companyID), userID, reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEntryService.AssertNotCalled(suite.T(), "RejectEntries")
}

func (suite *EntryHandlerTestSuite) TestRejectEntries_Success() {
	companyID := uuid.NewString()
	userID := uuid.NewString()
	ownerID := uuid.NewString()
	entryID := uuid.NewString()
	reason := "Wrong project selected"

	reqBody := dto.RejectEntriesRequest{OwnerUserID: ownerID, EntryIDs: []string{entryID}, Reason: reason}

	expected := &dto.BatchResult{Succeeded: []string{entryID}, Failed: []dto.BatchFailure{}}

	suite.mockEntryService.On("RejectEntries",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		ownerID,
		[]string{entryID},
		reason,
		userID,
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/entries/reject", companyID), userID, reqBody)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockEntryService.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestListEntries_PassesFilters() {
	companyID := uuid.NewString()
	userID := uuid.NewString()
	projectID := uuid.NewString()

	expected := &dto.ListEntriesResponse{Entries: []dto.EntryResponse{}}

	suite.mockEntryService.On("ListEntries",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		userID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.ProjectID != nil && *p.ProjectID == projectID &&
				p.Status != nil && *p.Status == "SUBMITTED" &&
				p.Limit == 10
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/entries?projectID=%s&status=SUBMITTED&limit=10", companyID, projectID)
	w := suite.doJSON(http.MethodGet, url, userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockEntryService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestEntryHandler(t *testing.T) {
	suite.Run(t, new(EntryHandlerTestSuite))
}
