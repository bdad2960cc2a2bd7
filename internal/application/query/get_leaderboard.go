package query

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// GetLeaderboardQuery requests one page of the XP ranking.
type GetLeaderboardQuery struct {
	Page     int
	PageSize int
}

// GetUserRankQuery requests a single user's ranked entry.
type GetUserRankQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetUserRankQuery) Validate() error {
	_, err := shared.NewUserID(q.UserID)
	return err
}

// GetLeaderboardHandler handles ranking reads against the cache projection.
type GetLeaderboardHandler struct {
	cache leaderboard.Cache
}

// NewGetLeaderboardHandler creates the handler with its dependencies.
func NewGetLeaderboardHandler(cache leaderboard.Cache) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{cache: cache}
}

// Handle returns one page of the ranking, best first.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*leaderboard.Page, error) {
	page, err := h.cache.GetPage(ctx, shared.NewPagination(q.Page, q.PageSize))
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	return page, nil
}

// HandleRank returns a user's entry with their 1-based rank.
// Propagates shared.ErrUserNotRanked for users with no score yet.
func (h *GetLeaderboardHandler) HandleRank(ctx context.Context, q GetUserRankQuery) (*leaderboard.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.cache.GetRank(ctx, shared.UserID(q.UserID))
}
