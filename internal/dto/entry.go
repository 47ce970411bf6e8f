package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tempusworks/timesheet_app/internal/core/domain"
)

// CreateEntryRequest defines the data needed to log a new time entry.
// New entries always start as drafts owned by the caller.
type CreateEntryRequest struct {
	ProjectID     string           `json:"projectID" binding:"required"`
	TaskID        *string          `json:"taskID"` // Optional
	Description   string           `json:"description" binding:"required,min=3"`
	DurationHours decimal.Decimal  `json:"durationHours" binding:"required,gt=0"`
	WorkDate      time.Time        `json:"workDate" binding:"required"`
	Billable      bool             `json:"billable"`
	BillRate      *decimal.Decimal `json:"billRate" binding:"omitempty,gte=0"` // Optional, independent of billable
}

// UpdateEntryRequest defines the data allowed for updating an entry's content.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateEntryRequest struct {
	ProjectID     *string          `json:"projectID"`
	TaskID        *string          `json:"taskID"`
	Description   *string          `json:"description" binding:"omitempty,min=3"`
	DurationHours *decimal.Decimal `json:"durationHours" binding:"omitempty,gt=0"`
	WorkDate      *time.Time       `json:"workDate"`
	Billable      *bool            `json:"billable"`
	BillRate      *decimal.Decimal `json:"billRate" binding:"omitempty,gte=0"`
}

// EntryResponse defines the data returned for a time entry.
type EntryResponse struct {
	EntryID         string             `json:"entryID"`
	CompanyID       string             `json:"companyID"`
	ProjectID       string             `json:"projectID"`
	TaskID          *string            `json:"taskID,omitempty"`
	UserID          string             `json:"userID"`
	Description     string             `json:"description"`
	DurationHours   decimal.Decimal    `json:"durationHours"`
	WorkDate        time.Time          `json:"workDate"`
	Billable        bool               `json:"billable"`
	BillRate        *decimal.Decimal   `json:"billRate,omitempty"`
	Status          domain.EntryStatus `json:"status"`
	ApproverID      *string            `json:"approverID,omitempty"`
	DecidedAt       *time.Time         `json:"decidedAt,omitempty"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	ProjectName     string             `json:"projectName,omitempty"`
	OwnerName       string             `json:"ownerName,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToEntryResponse converts a domain.TimeEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.TimeEntry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		CompanyID:       e.CompanyID,
		ProjectID:       e.ProjectID,
		TaskID:          e.TaskID,
		UserID:          e.UserID,
		Description:     e.Description,
		DurationHours:   e.DurationHours,
		WorkDate:        e.WorkDate,
		Billable:        e.Billable,
		BillRate:        e.BillRate,
		Status:          e.Status,
		ApproverID:      e.ApproverID,
		DecidedAt:       e.DecidedAt,
		RejectionReason: e.RejectionReason,
		ProjectName:     e.ProjectName,
		OwnerName:       e.OwnerName,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	UserID    *string    `form:"userID"`
	ProjectID *string    `form:"projectID"`
	Status    *string    `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries with the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToListEntriesResponse converts a slice of domain.TimeEntry to ListEntriesResponse.
func ToListEntriesResponse(entries []domain.TimeEntry, nextToken *string) *ListEntriesResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return &ListEntriesResponse{Entries: responses, NextToken: nextToken}
}

// --- Batch workflow DTOs ---

// BatchFailureReason classifies why a single entry in a batch was skipped.
type BatchFailureReason string

const (
	BatchReasonNotFound            BatchFailureReason = "NOT_FOUND"
	BatchReasonStateError          BatchFailureReason = "STATE_ERROR"
	BatchReasonAuthorizationError  BatchFailureReason = "AUTHORIZATION_ERROR"
	BatchReasonOwnershipMismatch   BatchFailureReason = "OWNERSHIP_MISMATCH"
	BatchReasonConcurrencyConflict BatchFailureReason = "CONCURRENCY_CONFLICT"
)

// BatchTransitionRequest names the entries a workflow action applies to.
type BatchTransitionRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1,dive,required"`
}

// ApproveEntriesRequest names one employee's entries to approve. Entries in
// the set that belong to someone else fail with an ownership mismatch.
type ApproveEntriesRequest struct {
	OwnerUserID string   `json:"ownerUserID" binding:"required"`
	EntryIDs    []string `json:"entryIDs" binding:"required,min=1,dive,required"`
}

// RejectEntriesRequest names one employee's entries to reject along with the
// mandatory reason.
type RejectEntriesRequest struct {
	OwnerUserID string   `json:"ownerUserID" binding:"required"`
	EntryIDs    []string `json:"entryIDs" binding:"required,min=1,dive,required"`
	Reason      string   `json:"reason" binding:"required"`
}

// BatchFailure reports one entry that could not be transitioned.
type BatchFailure struct {
	EntryID string             `json:"entryID"`
	Reason  BatchFailureReason `json:"reason"`
	Message string             `json:"message,omitempty"`
}

// BatchResult reports the per-entry outcome of a batch transition.
// The request as a whole succeeds even when individual entries fail.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
