// Package leaderboard contains the domain model for XP rankings.
// Rankings are a pure projection of user XP totals; the cache is the only
// store, rebuilt at any time from the progression ledger.
package leaderboard

import (
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Entry is one row of the leaderboard.
type Entry struct {
	UserID  shared.UserID `json:"user_id"`
	TotalXp int           `json:"total_xp"`
	Level   int           `json:"level"`
	Rank    int64         `json:"rank"` // 1-based position
}

// Page is a page of leaderboard entries.
type Page struct {
	Entries    []Entry `json:"entries"`
	TotalCount int64   `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// Snapshot captures rebuild metadata.
type Snapshot struct {
	RebuiltAt time.Time `json:"rebuilt_at"`
	UserCount int       `json:"user_count"`
}
