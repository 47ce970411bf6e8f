package repositories

import (
	"context"
	"time"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
)

// StatusFields carries the workflow columns written alongside a status swap.
// Nil pointers clear the corresponding column.
type StatusFields struct {
	ApproverID      *string
	DecidedAt       *time.Time
	RejectionReason *string
}

// EntryReader defines read operations for time entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific time entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.TimeEntry, error)

	// FindEntriesByIDs retrieves the entries for the given IDs, keyed by entry ID.
	// Missing IDs are simply absent from the result.
	FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimeEntry, error)

	// ListEntries retrieves a paginated, filtered list of entries using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.TimeEntry, *string, error)
}

// EntryWriter defines write operations for time entry data
type EntryWriter interface {
	// SaveEntry persists a new time entry.
	SaveEntry(ctx context.Context, entry domain.TimeEntry) error

	// UpdateEntry updates the content fields of an entry (description, duration,
	// billing, project linkage). The write is conditional on the entry still being
	// in expected status; a concurrent transition surfaces as apperrors.ErrConflict.
	UpdateEntry(ctx context.Context, entry domain.TimeEntry, expected domain.EntryStatus) error

	// CompareAndSwapStatus atomically moves an entry from expected to target status.
	// It reports false with no error when the entry was not in the expected
	// status anymore, which callers treat as a concurrency conflict.
	CompareAndSwapStatus(ctx context.Context, entryID string, expected, target domain.EntryStatus, fields StatusFields, updatedByUserID string, updatedAt time.Time) (bool, error)

	// DeleteEntry removes an entry permanently.
	DeleteEntry(ctx context.Context, entryID string) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
// This is a facade for clients that need access to all operations
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
