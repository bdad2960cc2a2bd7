// Package jobs contains the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob replaces the whole ranking from the XP totals in the
// database. The ranking cache is a projection; incremental score updates can
// be lost (Redis restart, missed event), and this job is what makes that loss
// harmless.
type RebuildLeaderboardJob struct {
	progressRepo   progression.Repository
	cache          leaderboard.Cache
	eventPublisher shared.EventPublisher
	log            *logger.Logger

	config RebuildLeaderboardConfig

	lastStats atomic.Value // *RebuildStats
}

// RebuildLeaderboardConfig contains configuration for the rebuild job.
type RebuildLeaderboardConfig struct {
	// Timeout is the maximum duration for the rebuild operation.
	Timeout time.Duration

	// PublishEvent controls whether a rebuilt event is published on success.
	PublishEvent bool
}

// DefaultRebuildLeaderboardConfig returns sensible defaults.
func DefaultRebuildLeaderboardConfig() RebuildLeaderboardConfig {
	return RebuildLeaderboardConfig{
		Timeout:      2 * time.Minute,
		PublishEvent: true,
	}
}

// RebuildStats contains statistics from a rebuild run.
type RebuildStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	UserCount   int
}

// NewRebuildLeaderboardJob creates a new rebuild leaderboard job.
func NewRebuildLeaderboardJob(
	progressRepo progression.Repository,
	cache leaderboard.Cache,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
	config RebuildLeaderboardConfig,
) *RebuildLeaderboardJob {
	if log == nil {
		log = logger.Default()
	}

	return &RebuildLeaderboardJob{
		progressRepo:   progressRepo,
		cache:          cache,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("rebuild_leaderboard")),
		config:         config,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardJob) Description() string {
	return "Rebuilds the XP ranking from the persisted user totals"
}

// Run executes the rebuild job.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	totals, err := j.progressRepo.ListTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load XP totals: %w", err)
	}

	snapshot, err := j.cache.Rebuild(ctx, totals)
	if err != nil {
		return fmt.Errorf("failed to rebuild ranking: %w", err)
	}

	stats := &RebuildStats{
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		UserCount:   snapshot.UserCount,
	}
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastStats.Store(stats)

	j.log.Info("leaderboard rebuilt",
		logger.Int("user_count", snapshot.UserCount),
		logger.Duration("duration", stats.Duration),
	)

	if j.config.PublishEvent && j.eventPublisher != nil {
		if err := j.eventPublisher.Publish(shared.NewLeaderboardRebuiltEvent(snapshot.UserCount)); err != nil {
			j.log.Warn("failed to publish rebuilt event", logger.Err(err))
		}
	}

	return nil
}

// LastStats returns statistics from the last successful rebuild.
func (j *RebuildLeaderboardJob) LastStats() *RebuildStats {
	stats := j.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*RebuildStats)
}
