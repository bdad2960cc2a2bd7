package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CompletionRepository implements training.CompletionRepository for PostgreSQL.
//
// The Pending→terminal flip is a conditional UPDATE guarded by
// status = 'pending'. Of two concurrent validators exactly one matches the
// row; the other sees zero rows affected and gets shared.ErrNotPending.
type CompletionRepository struct {
	conn *Connection
}

// NewCompletionRepository creates a new CompletionRepository.
func NewCompletionRepository(conn *Connection) *CompletionRepository {
	return &CompletionRepository{conn: conn}
}

// CreateCompletion persists a new completion in its initial status.
func (r *CompletionRepository) CreateCompletion(ctx context.Context, c *training.TrainingCompletion) error {
	insert := `
		INSERT INTO training_completions (
			id, training_id, user_id, completed_at, xp_granted, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.conn.Exec(ctx, insert,
		c.ID, c.TrainingID, c.UserID.String(), c.CompletedAt,
		c.XpGranted, c.Status.String(), c.Notes,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("training", "CreateCompletion", shared.ErrAlreadyExists, "completion already exists", err)
		}
		return fmt.Errorf("failed to create completion: %w", err)
	}
	return nil
}

const completionColumns = `
	c.id, c.training_id, COALESCE(t.name, ''), c.user_id, c.completed_at,
	c.xp_granted, c.status, COALESCE(c.validated_by_trainer_id::text, ''),
	c.validated_at, c.notes
`

// GetCompletion returns a completion with the training name resolved.
func (r *CompletionRepository) GetCompletion(ctx context.Context, id string) (*training.TrainingCompletion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM training_completions c
		LEFT JOIN trainings t ON t.id = c.training_id
		WHERE c.id = $1
	`
	row := r.conn.QueryRow(ctx, query, id)
	c, err := scanCompletion(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCompletionNotFound
		}
		return nil, fmt.Errorf("failed to read completion: %w", err)
	}
	return c, nil
}

// FinalizeValidation transitions a Pending completion to a terminal status.
// The WHERE status = 'pending' clause is the race guard: zero rows affected
// means another validator already resolved it (or the completion never was
// pending), and the caller must not award anything.
func (r *CompletionRepository) FinalizeValidation(ctx context.Context, completionID string, trainerID shared.TrainerID, status training.ValidationStatus, xpGranted int, notes string, validatedAt time.Time) error {
	update := `
		UPDATE training_completions
		SET status = $1, xp_granted = $2, notes = $3,
			validated_by_trainer_id = $4, validated_at = $5
		WHERE id = $6 AND status = $7
	`
	result, err := r.conn.Exec(ctx, update,
		status.String(), xpGranted, notes,
		trainerID.String(), validatedAt,
		completionID, training.StatusPending.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize validation: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish missing from already-resolved for the error taxonomy.
		var exists bool
		checkErr := r.conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM training_completions WHERE id = $1)`, completionID,
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check completion existence: %w", checkErr)
		}
		if !exists {
			return shared.ErrCompletionNotFound
		}
		return shared.ErrNotPending
	}
	return nil
}

// ListUserCompletions returns a user's completions, newest first, capped.
func (r *CompletionRepository) ListUserCompletions(ctx context.Context, userID shared.UserID, limit int) ([]*training.TrainingCompletion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM training_completions c
		LEFT JOIN trainings t ON t.id = c.training_id
		WHERE c.user_id = $1
		ORDER BY c.completed_at DESC
		LIMIT $2
	`
	return r.queryCompletions(ctx, query, userID.String(), limit)
}

// ListPendingValidations returns Pending completions for the trainer's
// trainings, newest first.
func (r *CompletionRepository) ListPendingValidations(ctx context.Context, trainerID shared.TrainerID) ([]*training.TrainingCompletion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM training_completions c
		JOIN trainings t ON t.id = c.training_id
		WHERE t.trainer_id = $1 AND c.status = 'pending'
		ORDER BY c.completed_at DESC
	`
	return r.queryCompletions(ctx, query, trainerID.String())
}

// CountCounted returns the number of counted completions for a user.
func (r *CompletionRepository) CountCounted(ctx context.Context, userID shared.UserID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM training_completions
		WHERE user_id = $1 AND status IN ('auto_approved', 'validated')
	`
	var count int
	if err := r.conn.QueryRow(ctx, query, userID.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}

// CountedCompletionTimes returns counted completion timestamps within the
// lookback window ending at now. Feeds the streak walk.
func (r *CompletionRepository) CountedCompletionTimes(ctx context.Context, userID shared.UserID, lookbackDays int, now time.Time) ([]time.Time, error) {
	query := `
		SELECT completed_at
		FROM training_completions
		WHERE user_id = $1
		  AND status IN ('auto_approved', 'validated')
		  AND completed_at >= $2
		  AND completed_at <= $3
		ORDER BY completed_at DESC
	`
	from := now.AddDate(0, 0, -lookbackDays)
	rows, err := r.conn.Query(ctx, query, userID.String(), from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan completion time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *CompletionRepository) queryCompletions(ctx context.Context, query string, args ...interface{}) ([]*training.TrainingCompletion, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []*training.TrainingCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompletion(row rowScanner) (*training.TrainingCompletion, error) {
	var c training.TrainingCompletion
	var rawStatus string
	if err := row.Scan(
		&c.ID, &c.TrainingID, &c.TrainingName, &c.UserID, &c.CompletedAt,
		&c.XpGranted, &rawStatus, &c.ValidatedByTrainerID,
		&c.ValidatedAt, &c.Notes,
	); err != nil {
		return nil, err
	}
	status, err := training.ParseValidationStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("completion %s: %w", c.ID, err)
	}
	c.Status = status
	return &c, nil
}
