package progression

import (
	"context"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// XpMutation carries the ledger metadata for a single XP change.
type XpMutation struct {
	// Type classifies the ledger entry.
	Type TransactionType

	// SourceID references the originating completion, when any.
	SourceID string

	// Reason is the human-readable audit note.
	Reason string

	// AwardedByTrainerID is set for trainer-initiated changes.
	AwardedByTrainerID shared.TrainerID
}

// XpResult reports the outcome of an applied XP mutation.
type XpResult struct {
	XpBefore   int
	NewTotalXp int
	OldLevel   int
	NewLevel   int
	LeveledUp  bool
}

// Repository defines the persistence contract for user progression.
// This interface is implemented by the infrastructure layer.
//
// Concurrency contract: AddXp and ResetXp must serialize per user - two
// concurrent calls for the same user must not lose an update. The Postgres
// implementation takes a row lock on the user's level row for the duration
// of the read-compute-write cycle.
type Repository interface {
	// GetOrCreateUserLevel fetches the user's level row, inserting the
	// default (level 1, 0 XP) if absent. Idempotent; concurrent first calls
	// must not produce two rows.
	GetOrCreateUserLevel(ctx context.Context, userID shared.UserID) (*UserLevel, error)

	// AddXp atomically applies a signed delta to the user's total XP
	// (clamped at zero), recomputes the level, and appends a ledger entry.
	// This is the sole mutation path for XP awards, bonuses, and adjustments.
	AddXp(ctx context.Context, userID shared.UserID, amount int, mutation XpMutation) (*XpResult, error)

	// ResetXp atomically sets the user's total XP to an absolute value
	// (not additive), recomputes the level, and appends a Reset ledger
	// entry whose delta is target minus old total.
	ResetXp(ctx context.Context, userID shared.UserID, newTotal int, reason string, trainerID shared.TrainerID) (*XpResult, error)

	// GetXpHistory returns the most recent ledger entries for a user,
	// newest first, with awarding trainer names resolved.
	GetXpHistory(ctx context.Context, userID shared.UserID, limit int) ([]*XpTransaction, error)

	// ListTotals returns every user's current XP total. Used by the
	// leaderboard rebuild job.
	ListTotals(ctx context.Context) (map[shared.UserID]int, error)
}

// CompletionDates provides the counted-completion dates needed by the streak
// walk. Implemented by the training completion repository; declared here so
// progression depends on the data it needs, not on the training package.
type CompletionDates interface {
	// CountedCompletionTimes returns completion timestamps for the user's
	// counted completions (auto-approved or validated) within the lookback
	// window ending at now.
	CountedCompletionTimes(ctx context.Context, userID shared.UserID, lookbackDays int, now time.Time) ([]time.Time, error)
}
