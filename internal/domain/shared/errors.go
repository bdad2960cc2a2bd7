// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progression", "training", "achievement"
	Op      string // Operation that failed, e.g., "AddXP", "Validate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Progression domain errors
var (
	ErrUserLevelNotFound  = NewDomainError("progression", "Find", ErrNotFound, "user level not found")
	ErrInvalidXPAmount    = NewDomainError("progression", "Validate", ErrInvalidInput, "invalid XP amount")
	ErrInvalidUserID      = NewDomainError("progression", "Validate", ErrInvalidID, "invalid user ID")
	ErrInvalidTrainerID   = NewDomainError("progression", "Validate", ErrInvalidID, "invalid trainer ID")
	ErrUnknownTransaction = NewDomainError("progression", "ParseType", ErrInvalidFormat, "unknown XP transaction type")
	ErrEmptyResetReason   = NewDomainError("progression", "ResetXP", ErrEmptyValue, "reset reason is required")
)

// Training domain errors
var (
	ErrTrainingNotFound   = NewDomainError("training", "Find", ErrNotFound, "training not found")
	ErrExerciseNotFound   = NewDomainError("training", "FindExercise", ErrNotFound, "exercise not found")
	ErrCompletionNotFound = NewDomainError("training", "FindCompletion", ErrNotFound, "completion not found")
	ErrNotPending         = NewDomainError("training", "Validate", ErrInvalidState, "completion is not pending validation")
	ErrAlreadyResolved    = NewDomainError("training", "Validate", ErrAlreadyProcessed, "completion already resolved")
	ErrInvalidStatus      = NewDomainError("training", "ParseStatus", ErrInvalidFormat, "unknown validation status")
	ErrInvalidDifficulty  = NewDomainError("training", "Validate", ErrValueOutOfRange, "difficulty must be between 1 and 5")
	ErrNegativeXPReward   = NewDomainError("training", "Validate", ErrNegativeValue, "XP reward cannot be negative")
	ErrInactiveTraining   = NewDomainError("training", "Complete", ErrInvalidState, "training is not active")
)

// Achievement domain errors
var (
	ErrAchievementNotFound = NewDomainError("achievement", "Find", ErrNotFound, "achievement not found")
	ErrUnknownAchievement  = NewDomainError("achievement", "Resolve", ErrInvalidInput, "unknown achievement type")
	ErrAlreadyAwarded      = NewDomainError("achievement", "Award", ErrAlreadyExists, "achievement already awarded")
)

// Leaderboard domain errors
var (
	ErrLeaderboardEmpty  = NewDomainError("leaderboard", "Read", ErrNotFound, "leaderboard is empty")
	ErrUserNotRanked     = NewDomainError("leaderboard", "Rank", ErrNotFound, "user is not ranked")
	ErrInvalidPageParams = NewDomainError("leaderboard", "Validate", ErrInvalidInput, "invalid page parameters")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidState checks if the error is an invalid-state error.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrStateTransition) ||
		errors.Is(err, ErrAlreadyProcessed)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}
