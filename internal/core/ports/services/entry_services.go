package services

import (
	"context"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
	"github.com/tempusworks/timesheet_app/internal/dto"
)

// EntryReaderSvc defines read operations for time entry data
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry by its ID.
	GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.TimeEntry, error)

	// ListEntries retrieves a paginated, filtered list of entries in a company.
	ListEntries(ctx context.Context, companyID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines write operations for time entry data
type EntryWriterSvc interface {
	// CreateEntry persists a new draft entry owned by the requesting user.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.TimeEntry, error)

	// UpdateEntry updates the content fields of an editable entry. Editing a
	// rejected entry moves it back to draft.
	UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.TimeEntry, error)

	// DeleteEntry removes a draft entry.
	DeleteEntry(ctx context.Context, companyID string, entryID string, requestingUserID string) error
}

// EntryWorkflowSvc defines the batch status transition operations.
// Each call processes every requested entry and reports per-entry outcomes;
// one entry failing never aborts the rest.
type EntryWorkflowSvc interface {
	// SubmitEntries moves the caller's draft or rejected entries to submitted.
	SubmitEntries(ctx context.Context, companyID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error)

	// ApproveEntries moves one employee's submitted entries to approved.
	// Entries in the set not owned by ownerUserID fail with an ownership mismatch.
	ApproveEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, requestingUserID string) (*dto.BatchResult, error)

	// RejectEntries moves one employee's submitted entries to rejected with a reason.
	RejectEntries(ctx context.Context, companyID string, ownerUserID string, entryIDs []string, reason string, requestingUserID string) (*dto.BatchResult, error)
}

// EntrySvcFacade combines all entry-related service interfaces
// This is a facade for clients that need access to all operations
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
	EntryWorkflowSvc
}
