package domain

import (
	"fmt"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
)

// TransitionInput carries everything the transition table needs to decide
// whether a proposed status change is legal.
type TransitionInput struct {
	Current EntryStatus
	Target  EntryStatus
	Role    UserCompanyRole
	// IsOwner is true when the acting user owns the entry.
	IsOwner bool
}

// ValidateTransition checks a proposed status change against the workflow
// table. It is a pure function; callers load the entry and membership first.
//
// Legal edges:
//
//	DRAFT     -> SUBMITTED  owner only
//	REJECTED  -> SUBMITTED  owner only (resubmit after edits)
//	SUBMITTED -> APPROVED   approver/admin, never the owner
//	SUBMITTED -> REJECTED   approver/admin, never the owner
//
// Everything else is rejected with ErrInvalidState, except permission
// problems on a legal edge which surface as ErrForbidden.
func ValidateTransition(in TransitionInput) error {
	if in.Current == in.Target {
		return fmt.Errorf("entry is already %s: %w", in.Current, apperrors.ErrInvalidState)
	}

	switch {
	case (in.Current == StatusDraft || in.Current == StatusRejected) && in.Target == StatusSubmitted:
		if !in.IsOwner {
			return fmt.Errorf("only the entry owner can submit: %w", apperrors.ErrForbidden)
		}
		return nil

	case in.Current == StatusSubmitted && (in.Target == StatusApproved || in.Target == StatusRejected):
		if in.Role != RoleAdmin && in.Role != RoleApprover {
			return fmt.Errorf("role %s cannot decide submitted entries: %w", in.Role, apperrors.ErrForbidden)
		}
		if in.IsOwner {
			// Self-approval is blocked even for admins.
			return fmt.Errorf("entry owner cannot decide their own entry: %w", apperrors.ErrForbidden)
		}
		return nil
	}

	return fmt.Errorf("transition %s -> %s is not allowed: %w", in.Current, in.Target, apperrors.ErrInvalidState)
}
