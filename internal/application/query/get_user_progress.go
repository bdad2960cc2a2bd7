// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER PROGRESS QUERY
// Composes the progress snapshot: level, tier bounds, percent toward the next
// tier, counted completions, and the current streak.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserProgressQuery identifies the athlete.
type GetUserProgressQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetUserProgressQuery) Validate() error {
	_, err := shared.NewUserID(q.UserID)
	return err
}

// ProgressSnapshot is the composed read model for a user's progression state.
type ProgressSnapshot struct {
	UserID            string
	CurrentLevel      int
	LevelLabel        string
	TotalXp           int
	CurrentLevelMinXp int

	// NextLevelXp is the threshold of the next tier, 0 at the top tier.
	NextLevelXp int

	// XpProgress is XP earned within the current tier.
	XpProgress int

	// XpNeeded is XP remaining to the next tier, 0 at the top tier.
	XpNeeded int

	// ProgressPercent is the within-tier progress, rounded to one decimal.
	// Pinned to 100.0 at the top tier.
	ProgressPercent float64

	CompletionCount int
	CurrentStreak   int
	LastUpdated     time.Time
}

// GetUserProgressHandler handles the GetUserProgressQuery.
type GetUserProgressHandler struct {
	progressRepo   progression.Repository
	completionRepo training.CompletionRepository
}

// NewGetUserProgressHandler creates the handler with its dependencies.
func NewGetUserProgressHandler(progressRepo progression.Repository, completionRepo training.CompletionRepository) *GetUserProgressHandler {
	return &GetUserProgressHandler{
		progressRepo:   progressRepo,
		completionRepo: completionRepo,
	}
}

// Handle executes the query.
func (h *GetUserProgressHandler) Handle(ctx context.Context, q GetUserProgressQuery) (*ProgressSnapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	userID := shared.UserID(q.UserID)

	level, err := h.progressRepo.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	completionCount, err := h.completionRepo.CountCounted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user progress: count completions: %w", err)
	}

	now := time.Now().UTC()
	times, err := h.completionRepo.CountedCompletionTimes(ctx, userID, progression.StreakLookbackDays, now)
	if err != nil {
		return nil, fmt.Errorf("get user progress: load completion dates: %w", err)
	}
	streak := progression.CurrentStreak(times, now)

	snapshot := &ProgressSnapshot{
		UserID:            userID.String(),
		CurrentLevel:      level.CurrentLevel,
		LevelLabel:        progression.LevelLabel(level.CurrentLevel),
		TotalXp:           level.TotalXp,
		CurrentLevelMinXp: progression.LevelMinXP(level.CurrentLevel),
		CompletionCount:   completionCount,
		CurrentStreak:     streak,
		LastUpdated:       level.LastUpdated,
	}

	nextXp := progression.NextLevelXP(level.CurrentLevel)
	snapshot.XpProgress = level.TotalXp - snapshot.CurrentLevelMinXp
	if nextXp == progression.NoNextLevel {
		// Top tier: no further threshold exists, progress is pinned full.
		snapshot.NextLevelXp = 0
		snapshot.XpNeeded = 0
		snapshot.ProgressPercent = 100.0
		return snapshot, nil
	}

	snapshot.NextLevelXp = nextXp
	snapshot.XpNeeded = nextXp - level.TotalXp
	span := nextXp - snapshot.CurrentLevelMinXp
	if span > 0 {
		pct := float64(snapshot.XpProgress) / float64(span) * 100.0
		snapshot.ProgressPercent = math.Round(pct*10) / 10
	}
	return snapshot, nil
}
