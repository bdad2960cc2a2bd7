package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG EXERCISE COMMAND
// Athlete logs a single performed exercise outside a training session. Points
// are computed once at log time from the exercise's base points, difficulty,
// and the actual-vs-suggested duration ratio. Exercise points live next to
// the XP ledger, not in it - they never change level or streak state.
// ══════════════════════════════════════════════════════════════════════════════

// LogExerciseCommand contains the performed-exercise data.
type LogExerciseCommand struct {
	// UserID is the verified ID of the athlete.
	UserID string

	// ExerciseID is the exercise from the trainer's catalog.
	ExerciseID string

	// DurationMin is the actual duration in minutes.
	DurationMin int

	// Notes is an optional comment.
	Notes string
}

// Validate validates the command.
func (c LogExerciseCommand) Validate() error {
	if _, err := shared.NewUserID(c.UserID); err != nil {
		return err
	}
	if c.ExerciseID == "" {
		return shared.NewDomainError("training", "LogExercise", shared.ErrEmptyValue, "exercise_id is required")
	}
	if c.DurationMin <= 0 {
		return shared.NewDomainError("training", "LogExercise", shared.ErrValueOutOfRange, "duration must be positive")
	}
	return nil
}

// LogExerciseResult reports the stored log.
type LogExerciseResult struct {
	LogID         string
	ExerciseTitle string
	PointsAwarded int
	PerformedAt   time.Time
}

// LogExerciseHandler handles the LogExerciseCommand.
type LogExerciseHandler struct {
	trainingRepo training.Repository
	eventBus     shared.EventPublisher
	log          *logger.Logger
}

// NewLogExerciseHandler creates the handler with its dependencies.
func NewLogExerciseHandler(trainingRepo training.Repository, eventBus shared.EventPublisher, log *logger.Logger) *LogExerciseHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LogExerciseHandler{
		trainingRepo: trainingRepo,
		eventBus:     eventBus,
		log:          log.With(logger.String("command", "log_exercise")),
	}
}

// Handle executes the command.
func (h *LogExerciseHandler) Handle(ctx context.Context, cmd LogExerciseCommand) (*LogExerciseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	userID := shared.UserID(cmd.UserID)

	exercise, err := h.trainingRepo.GetExercise(ctx, cmd.ExerciseID)
	if err != nil {
		return nil, err
	}

	points := progression.CalculatePoints(
		exercise.BasePoints,
		exercise.Difficulty,
		cmd.DurationMin,
		exercise.SuggestedDurationMin,
	)

	entry := &training.ExerciseLog{
		ID:            uuid.NewString(),
		UserID:        userID,
		ExerciseID:    exercise.ID,
		PerformedAt:   time.Now().UTC(),
		DurationMin:   cmd.DurationMin,
		PointsAwarded: points,
		Notes:         cmd.Notes,
	}
	if err := h.trainingRepo.CreateExerciseLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("log exercise: %w", err)
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewExerciseLoggedEvent(userID.String(), exercise.ID, entry.ID, points))
	}

	h.log.Info("exercise logged",
		logger.String("user_id", userID.String()),
		logger.String("exercise_id", exercise.ID),
		logger.Int("points", points),
	)

	return &LogExerciseResult{
		LogID:         entry.ID,
		ExerciseTitle: exercise.Title,
		PointsAwarded: points,
		PerformedAt:   entry.PerformedAt,
	}, nil
}
