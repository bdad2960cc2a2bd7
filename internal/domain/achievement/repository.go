package achievement

import (
	"context"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Repository defines the persistence contract for awarded achievements.
//
// Concurrency contract: SaveAll must be idempotent under concurrent award
// attempts. The storage layer enforces UNIQUE(user_id, achievement_type) and
// treats a conflicting insert as a no-op - the badge is simply not reported
// as newly awarded a second time.
type Repository interface {
	// ListByUser returns a user's achievements, newest first.
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Achievement, error)

	// ListHeldTypes returns the achievement types the user already holds.
	ListHeldTypes(ctx context.Context, userID shared.UserID) ([]Type, error)

	// SaveAll persists a batch of new achievements in one round trip and
	// returns the subset that was actually inserted (conflicts dropped).
	SaveAll(ctx context.Context, achievements []*Achievement) ([]*Achievement, error)
}
