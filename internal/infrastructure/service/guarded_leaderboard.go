// Package service contains infrastructure-level decorators around the domain
// ports.
package service

import (
	"context"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/circuitbreaker"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// GuardedLeaderboardCache wraps a leaderboard.Cache with a circuit breaker.
// When Redis degrades, the breaker opens and calls fail fast instead of
// piling up on timeouts. Ranking reads become unavailable for the duration;
// writes are safe to drop because the scheduled rebuild repairs the ranking.
type GuardedLeaderboardCache struct {
	inner   leaderboard.Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedLeaderboardCache creates a guarded cache around inner.
func NewGuardedLeaderboardCache(inner leaderboard.Cache, log *logger.Logger) *GuardedLeaderboardCache {
	if log == nil {
		log = logger.Default()
	}
	stateLog := log.With(logger.Component("leaderboard_breaker"))

	return &GuardedLeaderboardCache{
		inner: inner,
		breaker: circuitbreaker.RedisBreaker(func(name string, from, to circuitbreaker.State) {
			stateLog.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
}

// UpdateScore implements leaderboard.Cache.
func (g *GuardedLeaderboardCache) UpdateScore(ctx context.Context, userID shared.UserID, totalXp int) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.UpdateScore(ctx, userID, totalXp)
	})
}

// GetPage implements leaderboard.Cache.
func (g *GuardedLeaderboardCache) GetPage(ctx context.Context, page shared.Pagination) (*leaderboard.Page, error) {
	var result *leaderboard.Page
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		result, err = g.inner.GetPage(ctx, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetRank implements leaderboard.Cache. A missing user is not a cache
// failure, so it does not count against the breaker.
func (g *GuardedLeaderboardCache) GetRank(ctx context.Context, userID shared.UserID) (*leaderboard.Entry, error) {
	var result *leaderboard.Entry
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		result, err = g.inner.GetRank(ctx, userID)
		if shared.IsNotFound(err) {
			result = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, shared.ErrUserNotRanked
	}
	return result, nil
}

// Rebuild implements leaderboard.Cache.
func (g *GuardedLeaderboardCache) Rebuild(ctx context.Context, totals map[shared.UserID]int) (*leaderboard.Snapshot, error) {
	var result *leaderboard.Snapshot
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		result, err = g.inner.Rebuild(ctx, totals)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BreakerState exposes the current circuit state for health reporting.
func (g *GuardedLeaderboardCache) BreakerState() circuitbreaker.State {
	return g.breaker.State()
}
