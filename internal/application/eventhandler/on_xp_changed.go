// Package eventhandler contains subscribers that react to domain events.
package eventhandler

import (
	"context"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/leaderboard"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
	"github.com/fitplay-hub/fitplay-progression/pkg/retry"
)

// updateTimeout bounds one cache write; the handler runs on the bus
// dispatch path and must not hang it.
const updateTimeout = 3 * time.Second

// XPChangedHandler keeps the leaderboard cache in sync with XP changes.
// The cache is a projection - a failed update here is logged, never
// propagated, because the scheduled rebuild will repair any drift.
type XPChangedHandler struct {
	cache   leaderboard.Cache
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewXPChangedHandler creates the handler.
func NewXPChangedHandler(cache leaderboard.Cache, log *logger.Logger) *XPChangedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &XPChangedHandler{
		cache:   cache,
		retrier: retry.CacheRetrier(),
		log:     log.With(logger.String("handler", "xp_changed")),
	}
}

// EventTypes returns the event types this handler subscribes to.
func (h *XPChangedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{shared.EventXPChanged}
}

// Handle implements shared.EventHandler.
func (h *XPChangedHandler) Handle(event shared.Event) error {
	e, ok := event.(shared.XPChangedEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	err := h.retrier.Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(h.cache.UpdateScore(ctx, shared.UserID(e.UserID), e.XPAfter))
	})
	if err != nil {
		h.log.Warn("leaderboard score update failed",
			logger.String("user_id", e.UserID),
			logger.Int("total_xp", e.XPAfter),
			logger.Err(err),
		)
	}
	return nil
}
