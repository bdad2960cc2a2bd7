package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/circuitbreaker"
)

var errRedisDown = errors.New("connection refused")

// flakyCache fails every call until healed.
type flakyCache struct {
	failing bool
	entry   *leaderboard.Entry
	calls   int
}

func (c *flakyCache) UpdateScore(_ context.Context, _ shared.UserID, _ int) error {
	c.calls++
	if c.failing {
		return errRedisDown
	}
	return nil
}

func (c *flakyCache) GetPage(_ context.Context, _ shared.Pagination) (*leaderboard.Page, error) {
	c.calls++
	if c.failing {
		return nil, errRedisDown
	}
	return &leaderboard.Page{}, nil
}

func (c *flakyCache) GetRank(_ context.Context, _ shared.UserID) (*leaderboard.Entry, error) {
	c.calls++
	if c.failing {
		return nil, errRedisDown
	}
	if c.entry == nil {
		return nil, shared.ErrUserNotRanked
	}
	return c.entry, nil
}

func (c *flakyCache) Rebuild(_ context.Context, _ map[shared.UserID]int) (*leaderboard.Snapshot, error) {
	c.calls++
	if c.failing {
		return nil, errRedisDown
	}
	return &leaderboard.Snapshot{}, nil
}

const guardedTestUserID = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

func TestGuardedCache_PassesThroughWhenHealthy(t *testing.T) {
	inner := &flakyCache{entry: &leaderboard.Entry{UserID: guardedTestUserID, TotalXp: 500, Rank: 3}}
	guarded := NewGuardedLeaderboardCache(inner, nil)
	ctx := context.Background()

	assert.NoError(t, guarded.UpdateScore(ctx, shared.UserID(guardedTestUserID), 500))

	entry, err := guarded.GetRank(ctx, shared.UserID(guardedTestUserID))
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Rank)

	assert.Equal(t, circuitbreaker.StateClosed, guarded.BreakerState())
}

func TestGuardedCache_OpensAfterRepeatedFailures(t *testing.T) {
	inner := &flakyCache{failing: true}
	guarded := NewGuardedLeaderboardCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, guarded.UpdateScore(ctx, shared.UserID(guardedTestUserID), 100), errRedisDown)
	}
	assert.Equal(t, circuitbreaker.StateOpen, guarded.BreakerState())

	// Open breaker fails fast without touching the backend.
	callsBefore := inner.calls
	err := guarded.UpdateScore(ctx, shared.UserID(guardedTestUserID), 100)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, callsBefore, inner.calls)
}

func TestGuardedCache_NotRankedIsNotABreakerFailure(t *testing.T) {
	inner := &flakyCache{} // no entry: every GetRank misses
	guarded := NewGuardedLeaderboardCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := guarded.GetRank(ctx, shared.UserID(guardedTestUserID))
		assert.ErrorIs(t, err, shared.ErrUserNotRanked)
	}

	// Misses surface to the caller but never trip the circuit.
	assert.Equal(t, circuitbreaker.StateClosed, guarded.BreakerState())
}

func TestGuardedCache_RebuildGuarded(t *testing.T) {
	inner := &flakyCache{}
	guarded := NewGuardedLeaderboardCache(inner, nil)

	snapshot, err := guarded.Rebuild(context.Background(), map[shared.UserID]int{
		shared.UserID(guardedTestUserID): 500,
	})
	require.NoError(t, err)
	assert.NotNil(t, snapshot)
}
