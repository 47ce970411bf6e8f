package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	portsrepo "github.com/tempusworks/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// entryService implements the time entry lifecycle: content CRUD while the
// entry is editable, and the batch status workflow on top of the store's
// compare-and-swap primitive.
type entryService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewEntryService creates a new entry service.
func NewEntryService(er portsrepo.EntryRepositoryFacade, pr portsrepo.ProjectRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.EntrySvcFacade {
	return &entryService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		entryRepo:   er,
		projectRepo: pr,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// validateDuration enforces the quarter-hour granularity.
func validateDuration(d decimal.Decimal) error {
	if d.LessThan(domain.MinDurationHours) {
		return fmt.Errorf("%w: duration must be at least %s hours", apperrors.ErrValidation, domain.MinDurationHours)
	}
	if !d.Mod(domain.MinDurationHours).IsZero() {
		return fmt.Errorf("%w: duration must be a multiple of %s hours", apperrors.ErrValidation, domain.MinDurationHours)
	}
	return nil
}

// validateProjectLinkage checks the project belongs to the company, is not
// archived, and that any task belongs to the project.
func (s *entryService) validateProjectLinkage(ctx context.Context, companyID, projectID string, taskID *string) error {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: project %s not found", apperrors.ErrValidation, projectID)
		}
		return fmt.Errorf("failed to validate project: %w", err)
	}
	if project.CompanyID != companyID {
		return fmt.Errorf("%w: project %s not found", apperrors.ErrValidation, projectID)
	}
	if project.IsArchived {
		return fmt.Errorf("%w: project %s is archived", apperrors.ErrValidation, projectID)
	}

	if taskID != nil {
		task, err := s.projectRepo.FindTaskByID(ctx, *taskID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: task %s not found", apperrors.ErrValidation, *taskID)
			}
			return fmt.Errorf("failed to validate task: %w", err)
		}
		if task.ProjectID != projectID {
			return fmt.Errorf("%w: task %s does not belong to project %s", apperrors.ErrValidation, *taskID, projectID)
		}
	}
	return nil
}

// CreateEntry persists a new draft entry owned by the requesting user.
func (s *entryService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.TimeEntry, error) {
	if _, err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.CapCreateEntry); err != nil {
		return nil, err
	}

	if err := validateDuration(req.DurationHours); err != nil {
		return nil, err
	}
	if len(req.Description) < domain.MinDescriptionLen {
		return nil, fmt.Errorf("%w: description must be at least %d characters", apperrors.ErrValidation, domain.MinDescriptionLen)
	}
	if req.BillRate != nil && req.BillRate.IsNegative() {
		return nil, fmt.Errorf("%w: bill rate cannot be negative", apperrors.ErrValidation)
	}
	if err := s.validateProjectLinkage(ctx, companyID, req.ProjectID, req.TaskID); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := domain.TimeEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     companyID,
		ProjectID:     req.ProjectID,
		TaskID:        req.TaskID,
		UserID:        creatorUserID,
		Description:   req.Description,
		DurationHours: req.DurationHours,
		WorkDate:      req.WorkDate,
		Billable:      req.Billable,
		BillRate:      req.BillRate,
		Status:        domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save entry", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.LogInfo(ctx, "Entry created", slog.String("entry_id", entry.EntryID), slog.String("company_id", companyID))
	return &entry, nil
}

// loadCompanyEntry fetches an entry and hides entries of other companies.
func (s *entryService) loadCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntryByID retrieves an entry. Members see only their own entries;
// viewing someone else's requires team visibility.
func (s *entryService) GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.TimeEntry, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats); err != nil {
		return nil, err
	}

	entry, err := s.loadCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != requestingUserID {
		if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewTeamStats); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// ListEntries retrieves a paginated, filtered list of entries in a company.
// Callers without team visibility are scoped to their own entries.
func (s *entryService) ListEntries(ctx context.Context, companyID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	role, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapViewOwnStats)
	if err != nil {
		return nil, err
	}

	userFilter := params.UserID
	if !domain.RoleCan(role, domain.CapViewTeamStats) {
		if params.UserID != nil && *params.UserID != requestingUserID {
			return nil, fmt.Errorf("viewing another user's entries requires team visibility: %w", apperrors.ErrForbidden)
		}
		userFilter = &requestingUserID
	}

	filter := domain.EntryFilter{
		CompanyID: companyID,
		UserID:    userFilter,
		ProjectID: params.ProjectID,
		DateFrom:  params.DateFrom,
		DateTo:    params.DateTo,
	}
	if params.Status != nil {
		status := domain.EntryStatus(*params.Status)
		filter.Status = &status
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return dto.ToListEntriesResponse(entries, nextToken), nil
}

// UpdateEntry updates the content fields of an editable entry. Editing a
// rejected entry moves it back to draft and clears the previous decision.
func (s *entryService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.TimeEntry, error) {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapEditOwnEntry); err != nil {
		return nil, err
	}

	entry, err := s.loadCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != requestingUserID {
		return nil, fmt.Errorf("only the entry owner can edit it: %w", apperrors.ErrForbidden)
	}
	if !entry.IsEditable() {
		return nil, fmt.Errorf("entry in status %s cannot be edited: %w", entry.Status, apperrors.ErrInvalidState)
	}
	loadedStatus := entry.Status

	if req.ProjectID != nil {
		entry.ProjectID = *req.ProjectID
	}
	if req.TaskID != nil {
		entry.TaskID = req.TaskID
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.DurationHours != nil {
		entry.DurationHours = *req.DurationHours
	}
	if req.WorkDate != nil {
		entry.WorkDate = *req.WorkDate
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
	}
	if req.BillRate != nil {
		entry.BillRate = req.BillRate
	}

	if err := validateDuration(entry.DurationHours); err != nil {
		return nil, err
	}
	if len(entry.Description) < domain.MinDescriptionLen {
		return nil, fmt.Errorf("%w: description must be at least %d characters", apperrors.ErrValidation, domain.MinDescriptionLen)
	}
	if entry.BillRate != nil && entry.BillRate.IsNegative() {
		return nil, fmt.Errorf("%w: bill rate cannot be negative", apperrors.ErrValidation)
	}
	if err := s.validateProjectLinkage(ctx, companyID, entry.ProjectID, entry.TaskID); err != nil {
		return nil, err
	}

	// Content edits on a rejected entry restart the workflow.
	if entry.Status == domain.StatusRejected {
		entry.Status = domain.StatusDraft
		entry.ApproverID = nil
		entry.DecidedAt = nil
		entry.RejectionReason = nil
	}

	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = requestingUserID

	// Conditioned on the status we read above so a transition that landed in
	// between is never silently overwritten.
	if err := s.entryRepo.UpdateEntry(ctx, *entry, loadedStatus); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("entry was transitioned by a concurrent request: %w", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to update entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return entry, nil
}

// DeleteEntry removes a draft entry.
func (s *entryService) DeleteEntry(ctx context.Context, companyID string, entryID string, requestingUserID string) error {
	if _, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapEditOwnEntry); err != nil {
		return err
	}

	entry, err := s.loadCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != requestingUserID {
		return fmt.Errorf("only the entry owner can delete it: %w", apperrors.ErrForbidden)
	}
	if !entry.IsDeletable() {
		return fmt.Errorf("only draft entries can be deleted: %w", apperrors.ErrInvalidState)
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	s.LogInfo(ctx, "Entry deleted", slog.String("entry_id", entryID))
	return nil
}

// --- Batch workflow ---

// transitionPlan describes one kind of batch transition.
type transitionPlan struct {
	target domain.EntryStatus
	// ownerUserID, when set, requires every entry in the batch to belong to
	// that user. Approve and reject act on one employee's entries at a time.
	ownerUserID *string
	// fields computed per successful swap
	fields func(entry *domain.TimeEntry) portsrepo.StatusFields
}

// SubmitEntries moves the caller's draft or rejected entries to submitted.
func (s *entryService) SubmitEntries(ctx context.Context, companyID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error) {
	role, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapSubmitEntry)
	if err != nil {
		return nil, err
	}

	plan := transitionPlan{
		target: domain.StatusSubmitted,
		fields: func(_ *domain.TimeEntry) portsrepo.StatusFields {
			// Submission clears any previous decision.
			return portsrepo.StatusFields{}
		},
	}
	return s.runBatch(ctx, companyID, entryIDs, requestingUserID, role, plan)
}

// ApproveEntries moves one employee's submitted entries to approved.
func (s *entryService) ApproveEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error) {
	role, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapDecideEntry)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := transitionPlan{
		target:      domain.StatusApproved,
		ownerUserID: &ownerUserID,
		fields: func(_ *domain.TimeEntry) portsrepo.StatusFields {
			approver := requestingUserID
			decidedAt := now
			return portsrepo.StatusFields{ApproverID: &approver, DecidedAt: &decidedAt}
		},
	}
	return s.runBatch(ctx, companyID, entryIDs, requestingUserID, role, plan)
}

// RejectEntries moves one employee's submitted entries to rejected with a reason.
func (s *entryService) RejectEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, reason string, requestingUserID string) (*dto.BatchResult, error) {
	role, err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapDecideEntry)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	now := time.Now()
	plan := transitionPlan{
		target:      domain.StatusRejected,
		ownerUserID: &ownerUserID,
		fields: func(_ *domain.TimeEntry) portsrepo.StatusFields {
			approver := requestingUserID
			decidedAt := now
			r := reason
			return portsrepo.StatusFields{ApproverID: &approver, DecidedAt: &decidedAt, RejectionReason: &r}
		},
	}
	return s.runBatch(ctx, companyID, entryIDs, requestingUserID, role, plan)
}

// runBatch applies one transition to every requested entry independently.
// Entries are processed in request order; a failure is recorded and the loop
// moves on, so a single request can partially succeed.
func (s *entryService) runBatch(ctx context.Context, companyID string, entryIDs []string, actorID string, actorRole domain.UserCompanyRole, plan transitionPlan) (*dto.BatchResult, error) {
	if len(entryIDs) == 0 {
		return nil, fmt.Errorf("%w: no entry IDs provided", apperrors.ErrValidation)
	}

	entries, err := s.entryRepo.FindEntriesByIDs(ctx, entryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for batch transition", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	result := &dto.BatchResult{Succeeded: []string{}, Failed: []dto.BatchFailure{}}

	seen := make(map[string]bool, len(entryIDs))
	for _, entryID := range entryIDs {
		if seen[entryID] {
			// Duplicate IDs in one request: the second occurrence loses the
			// CAS race against the first and is reported as a conflict.
			result.Failed = append(result.Failed, dto.BatchFailure{
				EntryID: entryID,
				Reason:  dto.BatchReasonConcurrencyConflict,
				Message: "duplicate entry ID in request",
			})
			continue
		}
		seen[entryID] = true

		entry, ok := entries[entryID]
		if !ok || entry.CompanyID != companyID {
			result.Failed = append(result.Failed, dto.BatchFailure{
				EntryID: entryID,
				Reason:  dto.BatchReasonNotFound,
				Message: "entry not found",
			})
			continue
		}

		if plan.ownerUserID != nil && entry.UserID != *plan.ownerUserID {
			result.Failed = append(result.Failed, dto.BatchFailure{
				EntryID: entryID,
				Reason:  dto.BatchReasonOwnershipMismatch,
				Message: "entry does not belong to the named owner",
			})
			continue
		}

		if failure := s.checkTransition(&entry, actorID, actorRole, plan.target); failure != nil {
			failure.EntryID = entryID
			result.Failed = append(result.Failed, *failure)
			continue
		}

		swapped, err := s.entryRepo.CompareAndSwapStatus(ctx, entryID, entry.Status, plan.target, plan.fields(&entry), actorID, time.Now())
		if err != nil {
			s.LogError(ctx, err, "Batch transition swap failed", slog.String("entry_id", entryID))
			result.Failed = append(result.Failed, dto.BatchFailure{
				EntryID: entryID,
				Reason:  dto.BatchReasonConcurrencyConflict,
				Message: "storage error during transition",
			})
			continue
		}
		if !swapped {
			// Someone else changed the status between our read and the swap.
			result.Failed = append(result.Failed, dto.BatchFailure{
				EntryID: entryID,
				Reason:  dto.BatchReasonConcurrencyConflict,
				Message: fmt.Sprintf("entry is no longer %s", entry.Status),
			})
			continue
		}

		result.Succeeded = append(result.Succeeded, entryID)
	}

	s.LogInfo(ctx, "Batch transition completed",
		slog.String("company_id", companyID),
		slog.String("target_status", string(plan.target)),
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}

// checkTransition maps a transition validation error onto a batch failure.
func (s *entryService) checkTransition(entry *domain.TimeEntry, actorID string, actorRole domain.UserCompanyRole, target domain.EntryStatus) *dto.BatchFailure {
	err := domain.ValidateTransition(domain.TransitionInput{
		Current: entry.Status,
		Target:  target,
		Role:    actorRole,
		IsOwner: entry.UserID == actorID,
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidState):
		return &dto.BatchFailure{Reason: dto.BatchReasonStateError, Message: err.Error()}
	case errors.Is(err, apperrors.ErrForbidden):
		if target == domain.StatusSubmitted && entry.UserID != actorID {
			return &dto.BatchFailure{Reason: dto.BatchReasonOwnershipMismatch, Message: err.Error()}
		}
		return &dto.BatchFailure{Reason: dto.BatchReasonAuthorizationError, Message: err.Error()}
	default:
		return &dto.BatchFailure{Reason: dto.BatchReasonStateError, Message: err.Error()}
	}
}
