package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE TRAINING COMMAND
// Trainer authors a training session. XpReward and RequiresValidation are
// fixed here; completions inherit both.
// ══════════════════════════════════════════════════════════════════════════════

// TrainingExerciseInput is one entry of the authored exercise list.
type TrainingExerciseInput struct {
	ExerciseID  string
	Sets        int
	Reps        int
	RestSeconds int
	Notes       string
}

// CreateTrainingCommand contains the authored training.
type CreateTrainingCommand struct {
	TrainerID          string
	Name               string
	Description        string
	DurationMin        int
	XpReward           int
	Difficulty         int
	RequiresValidation bool
	Exercises          []TrainingExerciseInput
}

// Validate validates the command.
func (c CreateTrainingCommand) Validate() error {
	if _, err := shared.NewTrainerID(c.TrainerID); err != nil {
		return err
	}
	t := training.Training{
		Name:       c.Name,
		XpReward:   c.XpReward,
		Difficulty: c.Difficulty,
	}
	return t.Validate()
}

// CreateTrainingHandler handles the CreateTrainingCommand.
type CreateTrainingHandler struct {
	trainingRepo training.Repository
	log          *logger.Logger
}

// NewCreateTrainingHandler creates the handler with its dependencies.
func NewCreateTrainingHandler(trainingRepo training.Repository, log *logger.Logger) *CreateTrainingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CreateTrainingHandler{
		trainingRepo: trainingRepo,
		log:          log.With(logger.String("command", "create_training")),
	}
}

// Handle executes the command and returns the persisted training.
func (h *CreateTrainingHandler) Handle(ctx context.Context, cmd CreateTrainingCommand) (*training.Training, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t := &training.Training{
		ID:                 uuid.NewString(),
		TrainerID:          shared.TrainerID(cmd.TrainerID),
		Name:               cmd.Name,
		Description:        cmd.Description,
		DurationMin:        cmd.DurationMin,
		XpReward:           cmd.XpReward,
		Difficulty:         cmd.Difficulty,
		RequiresValidation: cmd.RequiresValidation,
		IsActive:           true,
		CreatedAt:          time.Now().UTC(),
	}
	for i, in := range cmd.Exercises {
		t.Exercises = append(t.Exercises, training.TrainingExercise{
			ID:          uuid.NewString(),
			ExerciseID:  in.ExerciseID,
			SortOrder:   i,
			Sets:        in.Sets,
			Reps:        in.Reps,
			RestSeconds: in.RestSeconds,
			Notes:       in.Notes,
		})
	}

	if err := h.trainingRepo.CreateTraining(ctx, t); err != nil {
		return nil, fmt.Errorf("create training: %w", err)
	}

	h.log.Info("training created",
		logger.String("training_id", t.ID),
		logger.String("trainer_id", t.TrainerID.String()),
		logger.Bool("requires_validation", t.RequiresValidation),
	)
	return t, nil
}
