package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// rankingKey is the sorted set holding every user's XP score.
const rankingKey = PrefixLeaderboard + "xp"

// metaKey holds rebuild metadata for the ranking.
const metaKey = PrefixLeaderboard + "meta"

// LeaderboardCache implements leaderboard.Cache on a Redis sorted set.
//
// The set is a projection of user_levels.total_xp. It is kept warm by the
// XP-changed event handler and can be rebuilt from scratch at any time, so a
// lost or stale entry is never more than one rebuild away from correct.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// UpdateScore sets a user's XP score, inserting the user if absent.
func (lc *LeaderboardCache) UpdateScore(ctx context.Context, userID shared.UserID, totalXp int) error {
	err := lc.cache.Client().ZAdd(ctx, rankingKey, redis.Z{
		Score:  float64(totalXp),
		Member: userID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update leaderboard score: %w", err)
	}
	return nil
}

// GetPage returns one page of the ranking, best first.
func (lc *LeaderboardCache) GetPage(ctx context.Context, page shared.Pagination) (*leaderboard.Page, error) {
	client := lc.cache.Client()

	total, err := client.ZCard(ctx, rankingKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count leaderboard entries: %w", err)
	}

	offset := page.Offset()
	limit := page.Limit()

	members, err := client.ZRevRangeWithScores(ctx, rankingKey,
		int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard page: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(members))
	for i, m := range members {
		userID, ok := m.Member.(string)
		if !ok {
			continue
		}
		totalXp := int(m.Score)
		entries = append(entries, leaderboard.Entry{
			UserID:  shared.UserID(userID),
			TotalXp: totalXp,
			Level:   progression.LevelFromXP(totalXp),
			Rank:    int64(offset+i) + 1,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &leaderboard.Page{
		Entries:    entries,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   limit,
		TotalPages: totalPages,
	}, nil
}

// GetRank returns a user's entry including their 1-based rank.
// Returns shared.ErrUserNotRanked when the user has no score yet.
func (lc *LeaderboardCache) GetRank(ctx context.Context, userID shared.UserID) (*leaderboard.Entry, error) {
	client := lc.cache.Client()

	rank, err := client.ZRevRank(ctx, rankingKey, userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrUserNotRanked
		}
		return nil, fmt.Errorf("failed to read leaderboard rank: %w", err)
	}

	score, err := client.ZScore(ctx, rankingKey, userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrUserNotRanked
		}
		return nil, fmt.Errorf("failed to read leaderboard score: %w", err)
	}

	totalXp := int(score)
	return &leaderboard.Entry{
		UserID:  userID,
		TotalXp: totalXp,
		Level:   progression.LevelFromXP(totalXp),
		Rank:    rank + 1, // ZREVRANK is 0-based
	}, nil
}

// Rebuild atomically replaces the whole ranking with the given totals.
// The delete and the re-population run in one MULTI/EXEC block, so readers
// never observe a half-built ranking.
func (lc *LeaderboardCache) Rebuild(ctx context.Context, totals map[shared.UserID]int) (*leaderboard.Snapshot, error) {
	now := time.Now().UTC()

	members := make([]redis.Z, 0, len(totals))
	for userID, totalXp := range totals {
		members = append(members, redis.Z{
			Score:  float64(totalXp),
			Member: userID.String(),
		})
	}

	pipe := lc.cache.Client().TxPipeline()
	pipe.Del(ctx, rankingKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, rankingKey, members...)
	}
	pipe.HSet(ctx, metaKey,
		"rebuilt_at", now.Format(time.RFC3339),
		"user_count", len(members),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}

	return &leaderboard.Snapshot{
		RebuiltAt: now,
		UserCount: len(members),
	}, nil
}
