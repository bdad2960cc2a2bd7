package query

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// DefaultCompletionsLimit caps the completion history read.
const DefaultCompletionsLimit = 50

// GetCompletionsQuery identifies the athlete and an optional limit.
type GetCompletionsQuery struct {
	UserID string
	Limit  int
}

// Validate validates the query.
func (q GetCompletionsQuery) Validate() error {
	if _, err := shared.NewUserID(q.UserID); err != nil {
		return err
	}
	if q.Limit < 0 {
		return shared.NewDomainError("training", "History", shared.ErrNegativeValue, "limit cannot be negative")
	}
	return nil
}

// GetPendingValidationsQuery identifies the trainer.
type GetPendingValidationsQuery struct {
	TrainerID string
}

// Validate validates the query.
func (q GetPendingValidationsQuery) Validate() error {
	_, err := shared.NewTrainerID(q.TrainerID)
	return err
}

// GetCompletionsHandler handles completion reads for athletes and trainers.
type GetCompletionsHandler struct {
	completionRepo training.CompletionRepository
}

// NewGetCompletionsHandler creates the handler with its dependencies.
func NewGetCompletionsHandler(completionRepo training.CompletionRepository) *GetCompletionsHandler {
	return &GetCompletionsHandler{completionRepo: completionRepo}
}

// Handle returns the user's completion history, newest first.
func (h *GetCompletionsHandler) Handle(ctx context.Context, q GetCompletionsQuery) ([]*training.TrainingCompletion, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultCompletionsLimit
	}
	completions, err := h.completionRepo.ListUserCompletions(ctx, shared.UserID(q.UserID), limit)
	if err != nil {
		return nil, fmt.Errorf("get completions: %w", err)
	}
	return completions, nil
}

// HandlePending returns the trainer's validation queue, newest first.
func (h *GetCompletionsHandler) HandlePending(ctx context.Context, q GetPendingValidationsQuery) ([]*training.TrainingCompletion, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	pending, err := h.completionRepo.ListPendingValidations(ctx, shared.TrainerID(q.TrainerID))
	if err != nil {
		return nil, fmt.Errorf("get pending validations: %w", err)
	}
	return pending, nil
}
