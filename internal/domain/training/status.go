// Package training contains the domain model for trainings, exercises, and
// the completion/validation state machine.
// This is a pure domain layer with zero external dependencies beyond shared.
package training

import (
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// ValidationStatus is the lifecycle state of a training completion.
//
// State machine:
//
//	(create) ──requiresValidation=false──▶ AutoApproved   (terminal, counted)
//	(create) ──requiresValidation=true───▶ Pending
//	Pending ──approve──▶ Validated                        (terminal, counted)
//	Pending ──reject───▶ Rejected                         (terminal, not counted)
//
// Terminal states never transition again.
type ValidationStatus string

const (
	StatusAutoApproved ValidationStatus = "auto_approved"
	StatusPending      ValidationStatus = "pending"
	StatusValidated    ValidationStatus = "validated"
	StatusRejected     ValidationStatus = "rejected"
)

// ParseValidationStatus parses a stored string into a ValidationStatus.
// Unknown input is a validation error, never a silent default.
func ParseValidationStatus(s string) (ValidationStatus, error) {
	switch ValidationStatus(s) {
	case StatusAutoApproved, StatusPending, StatusValidated, StatusRejected:
		return ValidationStatus(s), nil
	default:
		return "", shared.ErrInvalidStatus
	}
}

// String returns the string representation.
func (s ValidationStatus) String() string {
	return string(s)
}

// InitialStatus returns the status a new completion is created in.
func InitialStatus(requiresValidation bool) ValidationStatus {
	if requiresValidation {
		return StatusPending
	}
	return StatusAutoApproved
}

// IsCounted reports whether the completion counts toward progress
// (streaks, milestones, the is-completed flag).
func (s ValidationStatus) IsCounted() bool {
	return s == StatusAutoApproved || s == StatusValidated
}

// IsTerminal reports whether no further transitions are accepted.
func (s ValidationStatus) IsTerminal() bool {
	return s != StatusPending
}

// Resolve returns the terminal state a pending completion moves to.
// Calling it on a non-pending status is a state-transition error; the caller
// learns whether the completion was already resolved or never needed
// validation.
func (s ValidationStatus) Resolve(approved bool) (ValidationStatus, error) {
	if s != StatusPending {
		if s == StatusAutoApproved {
			// Never required validation in the first place.
			return "", shared.ErrNotPending
		}
		return "", shared.ErrAlreadyResolved
	}
	if approved {
		return StatusValidated, nil
	}
	return StatusRejected, nil
}
