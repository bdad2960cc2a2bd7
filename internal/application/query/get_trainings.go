package query

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// GetTrainingsQuery lists active trainings. When UserID is set, each summary
// carries whether that user already has a counted completion.
type GetTrainingsQuery struct {
	UserID string // optional
}

// Validate validates the query.
func (q GetTrainingsQuery) Validate() error {
	if q.UserID == "" {
		return nil
	}
	_, err := shared.NewUserID(q.UserID)
	return err
}

// GetTrainingQuery fetches a single training with its exercise list.
type GetTrainingQuery struct {
	TrainingID string
}

// Validate validates the query.
func (q GetTrainingQuery) Validate() error {
	if q.TrainingID == "" {
		return shared.NewDomainError("training", "Find", shared.ErrEmptyValue, "training_id is required")
	}
	return nil
}

// GetTrainerTrainingsQuery lists a trainer's own trainings, inactive included.
type GetTrainerTrainingsQuery struct {
	TrainerID string
}

// Validate validates the query.
func (q GetTrainerTrainingsQuery) Validate() error {
	_, err := shared.NewTrainerID(q.TrainerID)
	return err
}

// GetTrainingsHandler handles training catalog reads.
type GetTrainingsHandler struct {
	trainingRepo training.Repository
}

// NewGetTrainingsHandler creates the handler with its dependencies.
func NewGetTrainingsHandler(trainingRepo training.Repository) *GetTrainingsHandler {
	return &GetTrainingsHandler{trainingRepo: trainingRepo}
}

// Handle returns active training summaries, newest first.
func (h *GetTrainingsHandler) Handle(ctx context.Context, q GetTrainingsQuery) ([]*training.TrainingSummary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	summaries, err := h.trainingRepo.ListActiveTrainings(ctx, shared.UserID(q.UserID))
	if err != nil {
		return nil, fmt.Errorf("get trainings: %w", err)
	}
	return summaries, nil
}

// HandleOne returns a training with exercises and trainer name resolved.
func (h *GetTrainingsHandler) HandleOne(ctx context.Context, q GetTrainingQuery) (*training.Training, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.trainingRepo.GetTraining(ctx, q.TrainingID)
}

// HandleTrainer returns a trainer's trainings, inactive included.
func (h *GetTrainingsHandler) HandleTrainer(ctx context.Context, q GetTrainerTrainingsQuery) ([]*training.TrainingSummary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	summaries, err := h.trainingRepo.ListTrainerTrainings(ctx, shared.TrainerID(q.TrainerID))
	if err != nil {
		return nil, fmt.Errorf("get trainer trainings: %w", err)
	}
	return summaries, nil
}
