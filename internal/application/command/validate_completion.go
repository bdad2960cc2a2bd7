package command

import (
	"context"
	"fmt"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/application/saga"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATE COMPLETION COMMAND
// Trainer resolves a Pending completion: approve (optionally adjusting the XP
// grant) or reject. The Pending→terminal flip is a conditional update at the
// storage layer - of two concurrent calls exactly one wins, the other gets
// ErrNotPending and awards nothing.
// ══════════════════════════════════════════════════════════════════════════════

// RejectedDefaultNote is stored when a trainer rejects without a comment.
const RejectedDefaultNote = "Rejected by trainer"

// ValidateCompletionCommand contains the trainer's decision.
type ValidateCompletionCommand struct {
	// TrainerID is the verified ID of the validating trainer.
	TrainerID string

	// CompletionID is the pending completion being resolved.
	CompletionID string

	// Approved is the decision.
	Approved bool

	// XpAdjustment optionally overrides the stored grant on approval.
	// nil means "keep the stored grant"; a non-nil zero means "grant zero".
	XpAdjustment *int

	// Notes optionally replaces the completion notes.
	Notes string
}

// Validate validates the command.
func (c ValidateCompletionCommand) Validate() error {
	if _, err := shared.NewTrainerID(c.TrainerID); err != nil {
		return err
	}
	if c.CompletionID == "" {
		return shared.NewDomainError("training", "Validate", shared.ErrEmptyValue, "completion_id is required")
	}
	if c.XpAdjustment != nil && *c.XpAdjustment < 0 {
		return shared.NewDomainError("training", "Validate", shared.ErrNegativeValue, "xp_adjustment cannot be negative")
	}
	return nil
}

// ValidateCompletionResult mirrors CompleteTrainingResult for the validation path.
type ValidateCompletionResult struct {
	CompletionID    string
	XpAwarded       int
	Status          training.ValidationStatus
	NewTotalXp      int
	NewLevel        int
	LeveledUp       bool
	NewAchievements []*achievement.Achievement
}

// ValidateCompletionHandler handles the ValidateCompletionCommand.
type ValidateCompletionHandler struct {
	completionRepo  training.CompletionRepository
	progressRepo    progression.Repository
	achievementFlow *saga.AchievementFlow
	eventBus        shared.EventPublisher
	log             *logger.Logger
}

// NewValidateCompletionHandler creates the handler with its dependencies.
func NewValidateCompletionHandler(
	completionRepo training.CompletionRepository,
	progressRepo progression.Repository,
	achievementFlow *saga.AchievementFlow,
	eventBus shared.EventPublisher,
	log *logger.Logger,
) *ValidateCompletionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ValidateCompletionHandler{
		completionRepo:  completionRepo,
		progressRepo:    progressRepo,
		achievementFlow: achievementFlow,
		eventBus:        eventBus,
		log:             log.With(logger.String("command", "validate_completion")),
	}
}

// Handle executes the command.
func (h *ValidateCompletionHandler) Handle(ctx context.Context, cmd ValidateCompletionCommand) (*ValidateCompletionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	trainerID := shared.TrainerID(cmd.TrainerID)

	completion, err := h.completionRepo.GetCompletion(ctx, cmd.CompletionID)
	if err != nil {
		return nil, err
	}

	// Domain-level transition check distinguishes "already resolved" from
	// "never required validation"; the conditional update below is the
	// authoritative race guard.
	newStatus, err := completion.Status.Resolve(cmd.Approved)
	if err != nil {
		return nil, err
	}

	grant := 0
	notes := cmd.Notes
	if cmd.Approved {
		grant = completion.XpGranted
		if cmd.XpAdjustment != nil {
			grant = *cmd.XpAdjustment
		}
		if notes == "" {
			notes = completion.Notes
		}
	} else if notes == "" {
		notes = RejectedDefaultNote
	}

	now := time.Now().UTC()
	if err := h.completionRepo.FinalizeValidation(ctx, completion.ID, trainerID, newStatus, grant, notes, now); err != nil {
		// A concurrent validator may have won the flip between our read and
		// this update; surface that as the invalid-state error it is.
		return nil, err
	}

	result := &ValidateCompletionResult{
		CompletionID: completion.ID,
		XpAwarded:    grant,
		Status:       newStatus,
	}

	if cmd.Approved {
		xp, err := h.progressRepo.AddXp(ctx, completion.UserID, grant, progression.XpMutation{
			Type:               progression.TransactionTrainingCompletion,
			SourceID:           completion.ID,
			Reason:             fmt.Sprintf("Validated training: %s", completion.TrainingName),
			AwardedByTrainerID: trainerID,
		})
		if err != nil {
			return nil, fmt.Errorf("validate completion: award XP: %w", err)
		}

		result.NewTotalXp = xp.NewTotalXp
		result.NewLevel = xp.NewLevel
		result.LeveledUp = xp.LeveledUp

		if h.eventBus != nil {
			_ = h.eventBus.Publish(shared.NewXPChangedEvent(
				completion.UserID.String(), grant, xp.XpBefore, xp.NewTotalXp, xp.NewLevel, xp.LeveledUp, "completion validated"))
			if xp.LeveledUp {
				_ = h.eventBus.Publish(shared.NewLevelUpEvent(completion.UserID.String(), xp.OldLevel, xp.NewLevel, xp.NewTotalXp))
			}
		}

		newAchievements, err := h.achievementFlow.Run(ctx, completion.UserID, xp.NewLevel, xp.LeveledUp)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = newAchievements
	} else {
		// Rejection mutates nothing in the ledger; report current state.
		level, err := h.progressRepo.GetOrCreateUserLevel(ctx, completion.UserID)
		if err != nil {
			return nil, fmt.Errorf("validate completion: read progress: %w", err)
		}
		result.NewTotalXp = level.TotalXp
		result.NewLevel = level.CurrentLevel
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewCompletionValidatedEvent(
			completion.ID, completion.UserID.String(), trainerID.String(), cmd.Approved, grant))
	}

	h.log.Info("completion validated",
		logger.String("completion_id", completion.ID),
		logger.String("trainer_id", trainerID.String()),
		logger.Bool("approved", cmd.Approved),
		logger.Int("xp_granted", grant),
	)

	return result, nil
}
