package training

import (
	"strings"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Difficulty bounds for trainings and exercises.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ═══════════════════════════════════════════════════════════════════════════
// TRAINING
// ═══════════════════════════════════════════════════════════════════════════

// Training is a structured exercise session authored by a trainer.
//
// XpReward is fixed at authoring time and is the baseline award for every
// completion; only trainer validation may override the granted amount, and
// only per completion, never on the training itself.
type Training struct {
	ID                 string
	TrainerID          shared.TrainerID
	TrainerName        string // resolved on read
	Name               string
	Description        string
	DurationMin        int
	XpReward           int
	Difficulty         int
	RequiresValidation bool
	IsActive           bool // soft-delete flag
	Exercises          []TrainingExercise
	CreatedAt          time.Time
}

// Validate checks authoring invariants.
func (t *Training) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return shared.NewDomainError("training", "Validate", shared.ErrEmptyValue, "training name is required")
	}
	if t.XpReward < 0 {
		return shared.ErrNegativeXPReward
	}
	if t.Difficulty < MinDifficulty || t.Difficulty > MaxDifficulty {
		return shared.ErrInvalidDifficulty
	}
	return nil
}

// TrainingExercise is one ordered entry in a training's exercise list.
type TrainingExercise struct {
	ID            string
	ExerciseID    string
	ExerciseTitle string // resolved on read
	Category      string // resolved on read
	SortOrder     int
	Sets          int
	Reps          int
	RestSeconds   int
	Notes         string
}

// TrainingSummary is the list-view projection of a training.
type TrainingSummary struct {
	ID            string
	Name          string
	Description   string
	DurationMin   int
	XpReward      int
	Difficulty    int
	TrainerName   string
	ExerciseCount int
	IsCompleted   bool // true when the requesting user has a counted completion
}

// ═══════════════════════════════════════════════════════════════════════════
// EXERCISE + EXERCISE LOG
// ═══════════════════════════════════════════════════════════════════════════

// Exercise is a single reusable movement in a trainer's catalog.
// BasePoints and SuggestedDurationMin feed the points calculator when an
// athlete logs the exercise outside a training.
type Exercise struct {
	ID                   string
	TrainerID            shared.TrainerID
	Title                string
	Category             string
	Difficulty           int
	BasePoints           int
	SuggestedDurationMin int
	IsActive             bool
}

// ExerciseLog records one performed exercise with the points it scored.
// Points are computed once at log time and never recomputed.
type ExerciseLog struct {
	ID            string
	UserID        shared.UserID
	ExerciseID    string
	ExerciseTitle string // resolved on read
	Category      string // resolved on read
	PerformedAt   time.Time
	DurationMin   int
	PointsAwarded int
	Notes         string
}

// ExerciseSummary aggregates a user's logged activity.
type ExerciseSummary struct {
	TotalWorkouts int
	TotalMinutes  int
	TotalPoints   int
}

// ═══════════════════════════════════════════════════════════════════════════
// TRAINING COMPLETION
// ═══════════════════════════════════════════════════════════════════════════

// TrainingCompletion is one attempt record: a user completed a training once.
// XpGranted is mutable only while the completion is Pending (trainer
// adjustment at validation time); terminal completions are immutable.
type TrainingCompletion struct {
	ID                   string
	TrainingID           string
	TrainingName         string // resolved on read
	UserID               shared.UserID
	CompletedAt          time.Time
	XpGranted            int
	Status               ValidationStatus
	ValidatedByTrainerID shared.TrainerID // empty until validated/rejected
	ValidatedAt          *time.Time
	Notes                string
}

// NewCompletion builds the completion record for a just-finished training.
// The baseline grant is the training's XpReward even on the Pending path;
// the amount only becomes spendable once the completion is counted.
func NewCompletion(id string, t *Training, userID shared.UserID, notes string, now time.Time) *TrainingCompletion {
	return &TrainingCompletion{
		ID:          id,
		TrainingID:  t.ID,
		UserID:      userID,
		CompletedAt: now,
		XpGranted:   t.XpReward,
		Status:      InitialStatus(t.RequiresValidation),
		Notes:       notes,
	}
}
