package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progression.Repository for PostgreSQL.
//
// XP mutations run in a single transaction that locks the user's level row
// with SELECT ... FOR UPDATE. Concurrent mutations for the same user serialize
// on the lock; neither the total nor the ledger can lose an update.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// GetOrCreateUserLevel fetches the user's level row, inserting the default if
// absent. The primary key on user_id makes concurrent first calls converge on
// one row.
func (r *ProgressRepository) GetOrCreateUserLevel(ctx context.Context, userID shared.UserID) (*progression.UserLevel, error) {
	insert := `
		INSERT INTO user_levels (user_id, current_level, total_xp, last_updated)
		VALUES ($1, 1, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.conn.Exec(ctx, insert, userID.String()); err != nil {
		return nil, fmt.Errorf("failed to ensure user level: %w", err)
	}

	query := `
		SELECT user_id, current_level, total_xp, last_updated
		FROM user_levels
		WHERE user_id = $1
	`
	var ul progression.UserLevel
	err := r.conn.QueryRow(ctx, query, userID.String()).Scan(
		&ul.UserID, &ul.CurrentLevel, &ul.TotalXp, &ul.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read user level: %w", err)
	}
	return &ul, nil
}

// AddXp atomically applies a signed delta and appends a ledger entry.
func (r *ProgressRepository) AddXp(ctx context.Context, userID shared.UserID, amount int, mutation progression.XpMutation) (*progression.XpResult, error) {
	return r.mutate(ctx, userID, func(ul *progression.UserLevel, now time.Time) (int, progression.XpMutation) {
		return amount, mutation
	})
}

// ResetXp atomically sets the total to an absolute value and appends a Reset
// ledger entry whose delta is target minus old total.
func (r *ProgressRepository) ResetXp(ctx context.Context, userID shared.UserID, newTotal int, reason string, trainerID shared.TrainerID) (*progression.XpResult, error) {
	if newTotal < 0 {
		newTotal = 0
	}
	return r.mutate(ctx, userID, func(ul *progression.UserLevel, now time.Time) (int, progression.XpMutation) {
		return newTotal - ul.TotalXp, progression.XpMutation{
			Type:               progression.TransactionReset,
			Reason:             reason,
			AwardedByTrainerID: trainerID,
		}
	})
}

// mutate runs the locked read-compute-write cycle. deltaFn sees the locked
// row and returns the delta to apply plus the ledger metadata.
func (r *ProgressRepository) mutate(ctx context.Context, userID shared.UserID, deltaFn func(*progression.UserLevel, time.Time) (int, progression.XpMutation)) (*progression.XpResult, error) {
	var result progression.XpResult

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		ensure := `
			INSERT INTO user_levels (user_id, current_level, total_xp, last_updated)
			VALUES ($1, 1, 0, NOW())
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, ensure, userID.String()); err != nil {
			return fmt.Errorf("failed to ensure user level: %w", err)
		}

		lock := `
			SELECT user_id, current_level, total_xp, last_updated
			FROM user_levels
			WHERE user_id = $1
			FOR UPDATE
		`
		var ul progression.UserLevel
		if err := tx.QueryRow(ctx, lock, userID.String()).Scan(
			&ul.UserID, &ul.CurrentLevel, &ul.TotalXp, &ul.LastUpdated,
		); err != nil {
			return fmt.Errorf("failed to lock user level: %w", err)
		}

		now := time.Now().UTC()
		delta, mutation := deltaFn(&ul, now)

		oldLevel := ul.CurrentLevel
		xpBefore, xpAfter, leveledUp := ul.ApplyDelta(delta, now)

		update := `
			UPDATE user_levels
			SET current_level = $1, total_xp = $2, last_updated = $3
			WHERE user_id = $4
		`
		if _, err := tx.Exec(ctx, update, ul.CurrentLevel, ul.TotalXp, now, userID.String()); err != nil {
			return fmt.Errorf("failed to update user level: %w", err)
		}

		ledger := `
			INSERT INTO xp_transactions (
				user_id, transaction_type, source_id, xp_delta, xp_before, xp_after,
				reason, awarded_by_trainer_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.Exec(ctx, ledger,
			userID.String(),
			mutation.Type.String(),
			nullableID(mutation.SourceID),
			xpAfter-xpBefore,
			xpBefore,
			xpAfter,
			mutation.Reason,
			nullableID(mutation.AwardedByTrainerID.String()),
			now,
		); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		result = progression.XpResult{
			XpBefore:   xpBefore,
			NewTotalXp: xpAfter,
			OldLevel:   oldLevel,
			NewLevel:   ul.CurrentLevel,
			LeveledUp:  leveledUp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetXpHistory returns the most recent ledger entries, newest first, with
// awarding trainer names resolved.
func (r *ProgressRepository) GetXpHistory(ctx context.Context, userID shared.UserID, limit int) ([]*progression.XpTransaction, error) {
	query := `
		SELECT t.id, t.user_id, t.transaction_type, COALESCE(t.source_id::text, ''),
			   t.xp_delta, t.xp_before, t.xp_after, t.reason,
			   COALESCE(t.awarded_by_trainer_id::text, ''), COALESCE(tr.display_name, ''),
			   t.created_at
		FROM xp_transactions t
		LEFT JOIN trainers tr ON tr.id = t.awarded_by_trainer_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2
	`
	rows, err := r.conn.Query(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query XP history: %w", err)
	}
	defer rows.Close()

	var history []*progression.XpTransaction
	for rows.Next() {
		var entry progression.XpTransaction
		var rawType string
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &rawType, &entry.SourceID,
			&entry.XpDelta, &entry.XpBefore, &entry.XpAfter, &entry.Reason,
			&entry.AwardedByTrainerID, &entry.AwardedByTrainerName,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entry.TransactionType, err = progression.ParseTransactionType(rawType)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", entry.ID, err)
		}
		history = append(history, &entry)
	}
	return history, rows.Err()
}

// ListTotals returns every user's current XP total for the leaderboard rebuild.
func (r *ProgressRepository) ListTotals(ctx context.Context) (map[shared.UserID]int, error) {
	rows, err := r.conn.Query(ctx, `SELECT user_id, total_xp FROM user_levels`)
	if err != nil {
		return nil, fmt.Errorf("failed to query XP totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[shared.UserID]int)
	for rows.Next() {
		var userID shared.UserID
		var total int
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan totals row: %w", err)
		}
		totals[userID] = total
	}
	return totals, rows.Err()
}

// nullableID maps an empty string to NULL for UUID columns.
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}
