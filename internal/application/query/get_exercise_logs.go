package query

import (
	"context"
	"fmt"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// GetExerciseLogsQuery identifies the athlete and an optional time window.
// Zero From/To mean unbounded.
type GetExerciseLogsQuery struct {
	UserID string
	From   time.Time
	To     time.Time
}

// Validate validates the query.
func (q GetExerciseLogsQuery) Validate() error {
	if _, err := shared.NewUserID(q.UserID); err != nil {
		return err
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return shared.NewDomainError("training", "Logs", shared.ErrInvalidInput, "time window end precedes start")
	}
	return nil
}

// GetExerciseLogsHandler handles exercise log reads.
type GetExerciseLogsHandler struct {
	trainingRepo training.Repository
}

// NewGetExerciseLogsHandler creates the handler with its dependencies.
func NewGetExerciseLogsHandler(trainingRepo training.Repository) *GetExerciseLogsHandler {
	return &GetExerciseLogsHandler{trainingRepo: trainingRepo}
}

// Handle returns the user's logs, newest first.
func (h *GetExerciseLogsHandler) Handle(ctx context.Context, q GetExerciseLogsQuery) ([]*training.ExerciseLog, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	logs, err := h.trainingRepo.ListExerciseLogs(ctx, shared.UserID(q.UserID), q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("get exercise logs: %w", err)
	}
	return logs, nil
}

// HandleSummary aggregates the user's logged workouts.
func (h *GetExerciseLogsHandler) HandleSummary(ctx context.Context, q GetExerciseLogsQuery) (*training.ExerciseSummary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	summary, err := h.trainingRepo.GetExerciseSummary(ctx, shared.UserID(q.UserID))
	if err != nil {
		return nil, fmt.Errorf("get exercise summary: %w", err)
	}
	return summary, nil
}
