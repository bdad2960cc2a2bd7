package command

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD BONUS XP COMMAND
// Trainer grants discretionary XP outside any training completion.
// ══════════════════════════════════════════════════════════════════════════════

// Bounds for a single bonus grant.
const (
	MinBonusXp = 1
	MaxBonusXp = 10000
)

// AwardBonusXpCommand contains the bonus grant.
type AwardBonusXpCommand struct {
	// UserID is the athlete receiving the bonus.
	UserID string

	// Amount is the XP to grant (1..10000).
	Amount int

	// Reason is the mandatory audit note.
	Reason string

	// TrainerID is the verified ID of the granting trainer.
	TrainerID string
}

// Validate validates the command.
func (c AwardBonusXpCommand) Validate() error {
	if _, err := shared.NewUserID(c.UserID); err != nil {
		return err
	}
	if _, err := shared.NewTrainerID(c.TrainerID); err != nil {
		return err
	}
	if c.Amount < MinBonusXp || c.Amount > MaxBonusXp {
		return shared.NewDomainError("progression", "Bonus", shared.ErrValueOutOfRange,
			fmt.Sprintf("bonus amount must be between %d and %d", MinBonusXp, MaxBonusXp))
	}
	if c.Reason == "" {
		return shared.NewDomainError("progression", "Bonus", shared.ErrEmptyValue, "reason is required")
	}
	return nil
}

// AwardBonusXpResult reports the applied grant.
type AwardBonusXpResult struct {
	NewTotalXp int
	NewLevel   int
	LeveledUp  bool
}

// AwardBonusXpHandler handles the AwardBonusXpCommand.
type AwardBonusXpHandler struct {
	progressRepo progression.Repository
	eventBus     shared.EventPublisher
	log          *logger.Logger
}

// NewAwardBonusXpHandler creates the handler with its dependencies.
func NewAwardBonusXpHandler(progressRepo progression.Repository, eventBus shared.EventPublisher, log *logger.Logger) *AwardBonusXpHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AwardBonusXpHandler{
		progressRepo: progressRepo,
		eventBus:     eventBus,
		log:          log.With(logger.String("command", "award_bonus_xp")),
	}
}

// Handle executes the command.
func (h *AwardBonusXpHandler) Handle(ctx context.Context, cmd AwardBonusXpCommand) (*AwardBonusXpResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	userID := shared.UserID(cmd.UserID)
	trainerID := shared.TrainerID(cmd.TrainerID)

	xp, err := h.progressRepo.AddXp(ctx, userID, cmd.Amount, progression.XpMutation{
		Type:               progression.TransactionBonusFromTrainer,
		Reason:             cmd.Reason,
		AwardedByTrainerID: trainerID,
	})
	if err != nil {
		return nil, fmt.Errorf("award bonus XP: %w", err)
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewXPChangedEvent(
			userID.String(), cmd.Amount, xp.XpBefore, xp.NewTotalXp, xp.NewLevel, xp.LeveledUp, cmd.Reason))
		if xp.LeveledUp {
			_ = h.eventBus.Publish(shared.NewLevelUpEvent(userID.String(), xp.OldLevel, xp.NewLevel, xp.NewTotalXp))
		}
	}

	h.log.Info("bonus XP awarded",
		logger.String("user_id", userID.String()),
		logger.String("trainer_id", trainerID.String()),
		logger.Int("amount", cmd.Amount),
	)

	return &AwardBonusXpResult{
		NewTotalXp: xp.NewTotalXp,
		NewLevel:   xp.NewLevel,
		LeveledUp:  xp.LeveledUp,
	}, nil
}
