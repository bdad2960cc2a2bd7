// Package saga contains business processes that orchestrate multiple domain
// operations in a coordinated manner.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT FLOW
// Runs after every counted completion or XP change:
// Load Held Badges → Count Completions → Compute Streak → Check Catalog →
// Persist New Badges → Publish Events
//
// Idempotent end to end: the checker excludes held types, and the repository
// drops conflicting inserts, so concurrent runs for the same user award each
// type at most once.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlow evaluates and awards badges for a user.
type AchievementFlow struct {
	achievementRepo achievement.Repository
	completionRepo  training.CompletionRepository
	eventBus        shared.EventPublisher
	log             *logger.Logger
}

// NewAchievementFlow creates the flow with its dependencies.
func NewAchievementFlow(
	achievementRepo achievement.Repository,
	completionRepo training.CompletionRepository,
	eventBus shared.EventPublisher,
	log *logger.Logger,
) *AchievementFlow {
	if log == nil {
		log = logger.Default()
	}
	return &AchievementFlow{
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		eventBus:        eventBus,
		log:             log.With(logger.String("flow", "achievement")),
	}
}

// Run checks and awards achievements for a user given their level state
// after the triggering event. Returns the newly awarded achievements
// (empty on a repeat call with identical state).
func (f *AchievementFlow) Run(ctx context.Context, userID shared.UserID, currentLevel int, justLeveledUp bool) ([]*achievement.Achievement, error) {
	now := time.Now().UTC()

	held, err := f.achievementRepo.ListHeldTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("achievement flow: load held types: %w", err)
	}

	completionCount, err := f.completionRepo.CountCounted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("achievement flow: count completions: %w", err)
	}

	times, err := f.completionRepo.CountedCompletionTimes(ctx, userID, progression.StreakLookbackDays, now)
	if err != nil {
		return nil, fmt.Errorf("achievement flow: load completion dates: %w", err)
	}
	streak := progression.CurrentStreak(times, now)

	unlocked := achievement.Check(achievement.CheckInput{
		CompletionCount: completionCount,
		Streak:          streak,
		CurrentLevel:    currentLevel,
		JustLeveledUp:   justLeveledUp,
		Held:            held,
	})
	if len(unlocked) == 0 {
		return nil, nil
	}

	batch := make([]*achievement.Achievement, 0, len(unlocked))
	for _, t := range unlocked {
		a, err := achievement.New(userID, t, now)
		if err != nil {
			return nil, err
		}
		batch = append(batch, a)
	}

	// SaveAll drops rows another concurrent run inserted first; only what
	// actually landed is reported as new.
	awarded, err := f.achievementRepo.SaveAll(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("achievement flow: save achievements: %w", err)
	}

	for _, a := range awarded {
		f.log.Info("achievement unlocked",
			logger.String("user_id", userID.String()),
			logger.String("type", a.AchievementType.String()),
		)
		if f.eventBus != nil {
			_ = f.eventBus.Publish(shared.NewAchievementUnlockedEvent(userID.String(), a.AchievementType.String(), a.Name))
		}
	}

	return awarded, nil
}
