package leaderboard

import (
	"context"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Cache is the ranking store, implemented on Redis sorted sets.
// It is a projection: losing it is harmless, Rebuild restores it from the
// progression totals.
type Cache interface {
	// UpdateScore sets a user's XP score, inserting the user if absent.
	UpdateScore(ctx context.Context, userID shared.UserID, totalXp int) error

	// GetPage returns one page of the ranking, best first.
	GetPage(ctx context.Context, page shared.Pagination) (*Page, error)

	// GetRank returns a user's entry including their 1-based rank.
	// Returns shared.ErrUserNotRanked when the user has no score yet.
	GetRank(ctx context.Context, userID shared.UserID) (*Entry, error)

	// Rebuild atomically replaces the whole ranking with the given totals.
	Rebuild(ctx context.Context, totals map[shared.UserID]int) (*Snapshot, error)
}
