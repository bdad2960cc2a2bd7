package training

import (
	"context"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Repository defines the persistence contract for trainings and exercises.
// Implemented by the infrastructure layer; the domain has no knowledge of the
// actual storage mechanism.
type Repository interface {
	// CreateTraining persists a new training with its exercise list.
	CreateTraining(ctx context.Context, t *Training) error

	// GetTraining returns a training by ID with exercises and trainer name
	// resolved. Inactive trainings are still returned (reads don't hide
	// soft-deleted rows; completion does its own IsActive check).
	GetTraining(ctx context.Context, id string) (*Training, error)

	// ListActiveTrainings returns summaries of all active trainings,
	// newest first. When userID is non-empty, IsCompleted is set from the
	// user's counted completions.
	ListActiveTrainings(ctx context.Context, userID shared.UserID) ([]*TrainingSummary, error)

	// ListTrainerTrainings returns summaries of a trainer's trainings,
	// newest first, including inactive ones.
	ListTrainerTrainings(ctx context.Context, trainerID shared.TrainerID) ([]*TrainingSummary, error)

	// GetExercise returns an exercise by ID.
	GetExercise(ctx context.Context, id string) (*Exercise, error)

	// CreateExerciseLog persists a performed-exercise record.
	CreateExerciseLog(ctx context.Context, log *ExerciseLog) error

	// ListExerciseLogs returns a user's logs, newest first, optionally
	// bounded by a time window (zero times mean unbounded).
	ListExerciseLogs(ctx context.Context, userID shared.UserID, from, to time.Time) ([]*ExerciseLog, error)

	// GetExerciseSummary aggregates a user's logged workouts.
	GetExerciseSummary(ctx context.Context, userID shared.UserID) (*ExerciseSummary, error)
}

// CompletionRepository defines the persistence contract for training
// completions.
//
// Concurrency contract: FinalizeValidation performs the Pending→terminal flip
// as a conditional update - of two concurrent validation calls, exactly one
// wins; the loser gets shared.ErrNotPending and must not award anything.
type CompletionRepository interface {
	// CreateCompletion persists a new completion in its initial status.
	CreateCompletion(ctx context.Context, c *TrainingCompletion) error

	// GetCompletion returns a completion by ID with the training name
	// resolved.
	GetCompletion(ctx context.Context, id string) (*TrainingCompletion, error)

	// FinalizeValidation transitions a completion from Pending to the given
	// terminal status, stamping the trainer, timestamp, grant, and notes.
	// Returns shared.ErrNotPending when the completion is no longer Pending
	// and shared.ErrCompletionNotFound when it does not exist.
	FinalizeValidation(ctx context.Context, completionID string, trainerID shared.TrainerID, status ValidationStatus, xpGranted int, notes string, validatedAt time.Time) error

	// ListUserCompletions returns a user's completions, newest first, capped.
	ListUserCompletions(ctx context.Context, userID shared.UserID, limit int) ([]*TrainingCompletion, error)

	// ListPendingValidations returns all Pending completions whose training
	// belongs to the trainer, newest first.
	ListPendingValidations(ctx context.Context, trainerID shared.TrainerID) ([]*TrainingCompletion, error)

	// CountCounted returns the number of counted (auto-approved or
	// validated) completions for a user.
	CountCounted(ctx context.Context, userID shared.UserID) (int, error)

	// CountedCompletionTimes returns completion timestamps of the user's
	// counted completions within the lookback window ending at now.
	// Feeds the streak walk (progression.CompletionDates).
	CountedCompletionTimes(ctx context.Context, userID shared.UserID, lookbackDays int, now time.Time) ([]time.Time, error)
}
