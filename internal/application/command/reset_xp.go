package command

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET XP COMMAND
// Trainer sets a user's total XP to an absolute value (default zero). The
// ledger records a Reset entry whose delta is target minus old total, so the
// audit trail stays reconstructible.
// ══════════════════════════════════════════════════════════════════════════════

// ResetXpCommand contains the reset request.
type ResetXpCommand struct {
	// UserID is the athlete being reset.
	UserID string

	// NewValue is the target total. nil means reset to zero.
	NewValue *int

	// Reason is the mandatory audit note.
	Reason string

	// TrainerID is the verified ID of the resetting trainer.
	TrainerID string
}

// Validate validates the command.
func (c ResetXpCommand) Validate() error {
	if _, err := shared.NewUserID(c.UserID); err != nil {
		return err
	}
	if _, err := shared.NewTrainerID(c.TrainerID); err != nil {
		return err
	}
	if c.Reason == "" {
		return shared.ErrEmptyResetReason
	}
	if c.NewValue != nil && *c.NewValue < 0 {
		return shared.NewDomainError("progression", "ResetXP", shared.ErrNegativeValue, "new XP value cannot be negative")
	}
	return nil
}

// ResetXpResult reports the applied reset.
type ResetXpResult struct {
	NewTotalXp int
	NewLevel   int
}

// ResetXpHandler handles the ResetXpCommand.
type ResetXpHandler struct {
	progressRepo progression.Repository
	eventBus     shared.EventPublisher
	log          *logger.Logger
}

// NewResetXpHandler creates the handler with its dependencies.
func NewResetXpHandler(progressRepo progression.Repository, eventBus shared.EventPublisher, log *logger.Logger) *ResetXpHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ResetXpHandler{
		progressRepo: progressRepo,
		eventBus:     eventBus,
		log:          log.With(logger.String("command", "reset_xp")),
	}
}

// Handle executes the command.
func (h *ResetXpHandler) Handle(ctx context.Context, cmd ResetXpCommand) (*ResetXpResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	userID := shared.UserID(cmd.UserID)
	trainerID := shared.TrainerID(cmd.TrainerID)

	target := 0
	if cmd.NewValue != nil {
		target = *cmd.NewValue
	}

	xp, err := h.progressRepo.ResetXp(ctx, userID, target, cmd.Reason, trainerID)
	if err != nil {
		return nil, fmt.Errorf("reset XP: %w", err)
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewXPChangedEvent(
			userID.String(), xp.NewTotalXp-xp.XpBefore, xp.XpBefore, xp.NewTotalXp, xp.NewLevel, false, cmd.Reason))
	}

	h.log.Info("XP reset",
		logger.String("user_id", userID.String()),
		logger.String("trainer_id", trainerID.String()),
		logger.Int("new_total", xp.NewTotalXp),
	)

	return &ResetXpResult{
		NewTotalXp: xp.NewTotalXp,
		NewLevel:   xp.NewLevel,
	}, nil
}
