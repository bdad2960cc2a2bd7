package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

const progressTestUserID = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

// stubProgressRepo serves a fixed level row.
type stubProgressRepo struct {
	level *progression.UserLevel
}

func (r *stubProgressRepo) GetOrCreateUserLevel(_ context.Context, _ shared.UserID) (*progression.UserLevel, error) {
	return r.level, nil
}

func (r *stubProgressRepo) AddXp(_ context.Context, _ shared.UserID, _ int, _ progression.XpMutation) (*progression.XpResult, error) {
	return nil, nil
}

func (r *stubProgressRepo) ResetXp(_ context.Context, _ shared.UserID, _ int, _ string, _ shared.TrainerID) (*progression.XpResult, error) {
	return nil, nil
}

func (r *stubProgressRepo) GetXpHistory(_ context.Context, _ shared.UserID, _ int) ([]*progression.XpTransaction, error) {
	return nil, nil
}

func (r *stubProgressRepo) ListTotals(_ context.Context) (map[shared.UserID]int, error) {
	return nil, nil
}

// stubCompletionRepo serves fixed counts and completion times.
type stubCompletionRepo struct {
	count int
	times []time.Time
}

func (r *stubCompletionRepo) CreateCompletion(_ context.Context, _ *training.TrainingCompletion) error {
	return nil
}

func (r *stubCompletionRepo) GetCompletion(_ context.Context, _ string) (*training.TrainingCompletion, error) {
	return nil, shared.ErrCompletionNotFound
}

func (r *stubCompletionRepo) FinalizeValidation(_ context.Context, _ string, _ shared.TrainerID, _ training.ValidationStatus, _ int, _ string, _ time.Time) error {
	return nil
}

func (r *stubCompletionRepo) ListUserCompletions(_ context.Context, _ shared.UserID, _ int) ([]*training.TrainingCompletion, error) {
	return nil, nil
}

func (r *stubCompletionRepo) ListPendingValidations(_ context.Context, _ shared.TrainerID) ([]*training.TrainingCompletion, error) {
	return nil, nil
}

func (r *stubCompletionRepo) CountCounted(_ context.Context, _ shared.UserID) (int, error) {
	return r.count, nil
}

func (r *stubCompletionRepo) CountedCompletionTimes(_ context.Context, _ shared.UserID, _ int, _ time.Time) ([]time.Time, error) {
	return r.times, nil
}

func newProgressHandler(totalXp, count int, times []time.Time) *GetUserProgressHandler {
	level := &progression.UserLevel{
		UserID:       shared.UserID(progressTestUserID),
		CurrentLevel: progression.LevelFromXP(totalXp),
		TotalXp:      totalXp,
		LastUpdated:  time.Now().UTC(),
	}
	return NewGetUserProgressHandler(
		&stubProgressRepo{level: level},
		&stubCompletionRepo{count: count, times: times},
	)
}

func TestGetUserProgress_MidTier(t *testing.T) {
	// 750 XP sits in tier 2 (500..1499): 250 into a 1000-point span.
	handler := newProgressHandler(750, 4, nil)

	snapshot, err := handler.Handle(context.Background(), GetUserProgressQuery{UserID: progressTestUserID})
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.CurrentLevel)
	assert.Equal(t, "Novice", snapshot.LevelLabel)
	assert.Equal(t, 750, snapshot.TotalXp)
	assert.Equal(t, 500, snapshot.CurrentLevelMinXp)
	assert.Equal(t, 1500, snapshot.NextLevelXp)
	assert.Equal(t, 250, snapshot.XpProgress)
	assert.Equal(t, 750, snapshot.XpNeeded)
	assert.Equal(t, 25.0, snapshot.ProgressPercent)
	assert.Equal(t, 4, snapshot.CompletionCount)
}

func TestGetUserProgress_PercentRoundsToOneDecimal(t *testing.T) {
	// 666 XP in tier 2: 166/1000 = 16.6%.
	handler := newProgressHandler(666, 1, nil)

	snapshot, err := handler.Handle(context.Background(), GetUserProgressQuery{UserID: progressTestUserID})
	require.NoError(t, err)

	assert.Equal(t, 16.6, snapshot.ProgressPercent)
}

func TestGetUserProgress_TopTierPinnedFull(t *testing.T) {
	handler := newProgressHandler(45000, 220, nil)

	snapshot, err := handler.Handle(context.Background(), GetUserProgressQuery{UserID: progressTestUserID})
	require.NoError(t, err)

	assert.Equal(t, 10, snapshot.CurrentLevel)
	assert.Zero(t, snapshot.NextLevelXp)
	assert.Zero(t, snapshot.XpNeeded)
	assert.Equal(t, 100.0, snapshot.ProgressPercent)
}

func TestGetUserProgress_StreakFromCompletionTimes(t *testing.T) {
	now := time.Now().UTC()
	times := []time.Time{now, now.AddDate(0, 0, -1), now.AddDate(0, 0, -2)}
	handler := newProgressHandler(100, 3, times)

	snapshot, err := handler.Handle(context.Background(), GetUserProgressQuery{UserID: progressTestUserID})
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.CurrentStreak)
}

func TestGetUserProgress_InvalidUserID(t *testing.T) {
	handler := newProgressHandler(0, 0, nil)

	_, err := handler.Handle(context.Background(), GetUserProgressQuery{UserID: "nope"})
	assert.Error(t, err)
}
