package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// totalsRepo serves fixed XP totals; the mutation methods are never hit by the job.
type totalsRepo struct {
	totals map[shared.UserID]int
	err    error
}

func (r *totalsRepo) GetOrCreateUserLevel(_ context.Context, _ shared.UserID) (*progression.UserLevel, error) {
	return nil, nil
}

func (r *totalsRepo) AddXp(_ context.Context, _ shared.UserID, _ int, _ progression.XpMutation) (*progression.XpResult, error) {
	return nil, nil
}

func (r *totalsRepo) ResetXp(_ context.Context, _ shared.UserID, _ int, _ string, _ shared.TrainerID) (*progression.XpResult, error) {
	return nil, nil
}

func (r *totalsRepo) GetXpHistory(_ context.Context, _ shared.UserID, _ int) ([]*progression.XpTransaction, error) {
	return nil, nil
}

func (r *totalsRepo) ListTotals(_ context.Context) (map[shared.UserID]int, error) {
	return r.totals, r.err
}

type recordingCache struct {
	rebuilt map[shared.UserID]int
	err     error
}

func (c *recordingCache) UpdateScore(_ context.Context, _ shared.UserID, _ int) error { return nil }

func (c *recordingCache) GetPage(_ context.Context, _ shared.Pagination) (*leaderboard.Page, error) {
	return nil, nil
}

func (c *recordingCache) GetRank(_ context.Context, _ shared.UserID) (*leaderboard.Entry, error) {
	return nil, shared.ErrUserNotRanked
}

func (c *recordingCache) Rebuild(_ context.Context, totals map[shared.UserID]int) (*leaderboard.Snapshot, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.rebuilt = totals
	return &leaderboard.Snapshot{RebuiltAt: time.Now().UTC(), UserCount: len(totals)}, nil
}

type recordingPublisher struct {
	events []shared.Event
	err    error
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestRebuildLeaderboardJob_Run(t *testing.T) {
	repo := &totalsRepo{totals: map[shared.UserID]int{
		"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa": 1200,
		"bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb": 450,
	}}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	job := NewRebuildLeaderboardJob(repo, cache, publisher, nil, DefaultRebuildLeaderboardConfig())

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, repo.totals, cache.rebuilt)

	stats := job.LastStats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.UserCount)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventLeaderboardRebuilt, publisher.events[0].EventType())
}

func TestRebuildLeaderboardJob_RepoFailure(t *testing.T) {
	repo := &totalsRepo{err: errors.New("db down")}
	job := NewRebuildLeaderboardJob(repo, &recordingCache{}, nil, nil, DefaultRebuildLeaderboardConfig())

	err := job.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, job.LastStats())
}

func TestRebuildLeaderboardJob_CacheFailure(t *testing.T) {
	repo := &totalsRepo{totals: map[shared.UserID]int{}}
	cache := &recordingCache{err: errors.New("redis down")}
	job := NewRebuildLeaderboardJob(repo, cache, nil, nil, DefaultRebuildLeaderboardConfig())

	assert.Error(t, job.Run(context.Background()))
}

func TestRebuildLeaderboardJob_PublishFailureDoesNotFailRun(t *testing.T) {
	repo := &totalsRepo{totals: map[shared.UserID]int{
		"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa": 100,
	}}
	publisher := &recordingPublisher{err: errors.New("bus closed")}
	job := NewRebuildLeaderboardJob(repo, &recordingCache{}, publisher, nil, DefaultRebuildLeaderboardConfig())

	// A lost notification only warns; the rebuild itself succeeded.
	assert.NoError(t, job.Run(context.Background()))
}
