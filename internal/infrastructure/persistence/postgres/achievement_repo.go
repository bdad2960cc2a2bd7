package postgres

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository implements achievement.Repository for PostgreSQL.
//
// Award idempotence rests on UNIQUE(user_id, achievement_type): the batch
// insert uses ON CONFLICT DO NOTHING and RETURNING, so only rows that were
// actually inserted come back as newly awarded.
type AchievementRepository struct {
	conn *Connection
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection) *AchievementRepository {
	return &AchievementRepository{conn: conn}
}

// ListByUser returns a user's achievements, newest first.
func (r *AchievementRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*achievement.Achievement, error) {
	query := `
		SELECT id, user_id, achievement_type, name, description, awarded_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY awarded_at DESC, id DESC
	`
	rows, err := r.conn.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.Achievement
	for rows.Next() {
		var a achievement.Achievement
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.AchievementType, &a.Name, &a.Description, &a.AwardedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}
	return achievements, rows.Err()
}

// ListHeldTypes returns the achievement types the user already holds.
func (r *AchievementRepository) ListHeldTypes(ctx context.Context, userID shared.UserID) ([]achievement.Type, error) {
	query := `SELECT achievement_type FROM achievements WHERE user_id = $1`
	rows, err := r.conn.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query held achievement types: %w", err)
	}
	defer rows.Close()

	var types []achievement.Type
	for rows.Next() {
		var t achievement.Type
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan achievement type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// SaveAll persists a batch of achievements and returns the subset that was
// actually inserted. Conflicting rows (badge already held) are dropped
// silently, which makes concurrent award attempts idempotent.
func (r *AchievementRepository) SaveAll(ctx context.Context, achievements []*achievement.Achievement) ([]*achievement.Achievement, error) {
	if len(achievements) == 0 {
		return nil, nil
	}

	var inserted []*achievement.Achievement
	for _, a := range achievements {
		insert := `
			INSERT INTO achievements (user_id, achievement_type, name, description, awarded_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, achievement_type) DO NOTHING
			RETURNING id
		`
		var id int64
		err := r.conn.QueryRow(ctx, insert,
			a.UserID.String(), a.AchievementType.String(), a.Name, a.Description, a.AwardedAt,
		).Scan(&id)
		if err != nil {
			if IsNoRows(err) {
				// Conflict: badge already held, not newly awarded.
				continue
			}
			return nil, fmt.Errorf("failed to save achievement: %w", err)
		}
		a.ID = id
		inserted = append(inserted, a)
	}
	return inserted, nil
}
