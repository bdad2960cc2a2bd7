// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
	"github.com/fitplay-hub/fitplay-progression/internal/application/saga"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE TRAINING COMMAND
// Records that an athlete finished a training session. The completion enters
// AutoApproved (XP awarded immediately) or Pending (XP held until a trainer
// validates) depending on the training's requiresValidation flag.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteTrainingCommand contains the data to record a completion.
type CompleteTrainingCommand struct {
	// UserID is the verified ID of the athlete.
	UserID string

	// TrainingID is the training that was completed.
	TrainingID string

	// Notes is an optional free-form comment from the athlete.
	Notes string
}

// Validate validates the command.
func (c CompleteTrainingCommand) Validate() error {
	if _, err := shared.NewUserID(c.UserID); err != nil {
		return err
	}
	if c.TrainingID == "" {
		return shared.NewDomainError("training", "Complete", shared.ErrEmptyValue, "training_id is required")
	}
	return nil
}

// CompleteTrainingResult contains the composed response for a completion.
type CompleteTrainingResult struct {
	// CompletionID identifies the new completion record.
	CompletionID string

	// XpAwarded is the XP granted now (0 when Pending).
	XpAwarded int

	// Status is the completion's initial status.
	Status training.ValidationStatus

	// NewTotalXp / NewLevel reflect the user's progress after the award
	// (unchanged current values when Pending).
	NewTotalXp int
	NewLevel   int

	// LeveledUp is true when the award raised the level.
	LeveledUp bool

	// NewAchievements lists badges unlocked by this completion (nil when
	// Pending or none).
	NewAchievements []*achievement.Achievement
}

// CompleteTrainingHandler handles the CompleteTrainingCommand.
type CompleteTrainingHandler struct {
	trainingRepo    training.Repository
	completionRepo  training.CompletionRepository
	progressRepo    progression.Repository
	achievementFlow *saga.AchievementFlow
	eventBus        shared.EventPublisher
	log             *logger.Logger
}

// NewCompleteTrainingHandler creates the handler with its dependencies.
func NewCompleteTrainingHandler(
	trainingRepo training.Repository,
	completionRepo training.CompletionRepository,
	progressRepo progression.Repository,
	achievementFlow *saga.AchievementFlow,
	eventBus shared.EventPublisher,
	log *logger.Logger,
) *CompleteTrainingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CompleteTrainingHandler{
		trainingRepo:    trainingRepo,
		completionRepo:  completionRepo,
		progressRepo:    progressRepo,
		achievementFlow: achievementFlow,
		eventBus:        eventBus,
		log:             log.With(logger.String("command", "complete_training")),
	}
}

// Handle executes the command.
func (h *CompleteTrainingHandler) Handle(ctx context.Context, cmd CompleteTrainingCommand) (*CompleteTrainingResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	userID := shared.UserID(cmd.UserID)

	t, err := h.trainingRepo.GetTraining(ctx, cmd.TrainingID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, shared.ErrInactiveTraining
	}

	completion := training.NewCompletion(uuid.NewString(), t, userID, cmd.Notes, time.Now().UTC())
	if err := h.completionRepo.CreateCompletion(ctx, completion); err != nil {
		return nil, fmt.Errorf("complete training: create completion: %w", err)
	}

	result := &CompleteTrainingResult{
		CompletionID: completion.ID,
		Status:       completion.Status,
	}

	if completion.Status == training.StatusAutoApproved {
		xp, err := h.progressRepo.AddXp(ctx, userID, t.XpReward, progression.XpMutation{
			Type:     progression.TransactionTrainingCompletion,
			SourceID: completion.ID,
			Reason:   fmt.Sprintf("Completed training: %s", t.Name),
		})
		if err != nil {
			return nil, fmt.Errorf("complete training: award XP: %w", err)
		}

		result.XpAwarded = t.XpReward
		result.NewTotalXp = xp.NewTotalXp
		result.NewLevel = xp.NewLevel
		result.LeveledUp = xp.LeveledUp

		h.publishXPEvents(userID, t.XpReward, xp)

		newAchievements, err := h.achievementFlow.Run(ctx, userID, xp.NewLevel, xp.LeveledUp)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = newAchievements
	} else {
		// Pending: nothing is awarded yet; report current, unchanged totals.
		level, err := h.progressRepo.GetOrCreateUserLevel(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("complete training: read progress: %w", err)
		}
		result.NewTotalXp = level.TotalXp
		result.NewLevel = level.CurrentLevel
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewTrainingCompletedEvent(
			userID.String(), t.ID, completion.ID, completion.Status.String(), result.XpAwarded))
	}

	h.log.Info("training completed",
		logger.String("user_id", userID.String()),
		logger.String("training_id", t.ID),
		logger.String("status", completion.Status.String()),
		logger.Int("xp_awarded", result.XpAwarded),
	)

	return result, nil
}

func (h *CompleteTrainingHandler) publishXPEvents(userID shared.UserID, delta int, xp *progression.XpResult) {
	if h.eventBus == nil {
		return
	}
	_ = h.eventBus.Publish(shared.NewXPChangedEvent(
		userID.String(), delta, xp.XpBefore, xp.NewTotalXp, xp.NewLevel, xp.LeveledUp, "training completion"))
	if xp.LeveledUp {
		_ = h.eventBus.Publish(shared.NewLevelUpEvent(userID.String(), xp.OldLevel, xp.NewLevel, xp.NewTotalXp))
	}
}
