package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRAINING REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TrainingRepository implements training.Repository for PostgreSQL.
type TrainingRepository struct {
	conn *Connection
}

// NewTrainingRepository creates a new TrainingRepository.
func NewTrainingRepository(conn *Connection) *TrainingRepository {
	return &TrainingRepository{conn: conn}
}

// CreateTraining persists a training and its exercise list in one transaction.
func (r *TrainingRepository) CreateTraining(ctx context.Context, t *training.Training) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insert := `
			INSERT INTO trainings (
				id, trainer_id, name, description, duration_min, xp_reward,
				difficulty, requires_validation, is_active, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.Exec(ctx, insert,
			t.ID, t.TrainerID.String(), t.Name, t.Description, t.DurationMin,
			t.XpReward, t.Difficulty, t.RequiresValidation, t.IsActive, t.CreatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.WrapError("training", "Create", shared.ErrAlreadyExists, "training already exists", err)
			}
			return fmt.Errorf("failed to create training: %w", err)
		}

		for _, ex := range t.Exercises {
			insertEx := `
				INSERT INTO training_exercises (
					id, training_id, exercise_id, sort_order, sets, reps, rest_seconds, notes
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`
			if _, err := tx.Exec(ctx, insertEx,
				ex.ID, t.ID, ex.ExerciseID, ex.SortOrder, ex.Sets, ex.Reps, ex.RestSeconds, ex.Notes,
			); err != nil {
				return fmt.Errorf("failed to create training exercise: %w", err)
			}
		}
		return nil
	})
}

// GetTraining returns a training with exercises and trainer name resolved.
func (r *TrainingRepository) GetTraining(ctx context.Context, id string) (*training.Training, error) {
	query := `
		SELECT t.id, t.trainer_id, COALESCE(tr.display_name, ''), t.name, t.description,
			   t.duration_min, t.xp_reward, t.difficulty, t.requires_validation,
			   t.is_active, t.created_at
		FROM trainings t
		LEFT JOIN trainers tr ON tr.id = t.trainer_id
		WHERE t.id = $1
	`
	var t training.Training
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TrainerID, &t.TrainerName, &t.Name, &t.Description,
		&t.DurationMin, &t.XpReward, &t.Difficulty, &t.RequiresValidation,
		&t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("failed to read training: %w", err)
	}

	exQuery := `
		SELECT te.id, te.exercise_id, COALESCE(e.title, ''), COALESCE(e.category, ''),
			   te.sort_order, te.sets, te.reps, te.rest_seconds, te.notes
		FROM training_exercises te
		LEFT JOIN exercises e ON e.id = te.exercise_id
		WHERE te.training_id = $1
		ORDER BY te.sort_order
	`
	rows, err := r.conn.Query(ctx, exQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query training exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex training.TrainingExercise
		if err := rows.Scan(
			&ex.ID, &ex.ExerciseID, &ex.ExerciseTitle, &ex.Category,
			&ex.SortOrder, &ex.Sets, &ex.Reps, &ex.RestSeconds, &ex.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan training exercise: %w", err)
		}
		t.Exercises = append(t.Exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// summaryQuery builds the list-view projection. When userID is non-empty the
// is_completed flag reflects the user's counted completions.
const summaryQuery = `
	SELECT t.id, t.name, t.description, t.duration_min, t.xp_reward, t.difficulty,
		   COALESCE(tr.display_name, ''),
		   (SELECT COUNT(*) FROM training_exercises te WHERE te.training_id = t.id),
		   CASE WHEN $1 = '' THEN FALSE ELSE EXISTS (
			   SELECT 1 FROM training_completions c
			   WHERE c.training_id = t.id AND c.user_id::text = $1
				 AND c.status IN ('auto_approved', 'validated')
		   ) END
	FROM trainings t
	LEFT JOIN trainers tr ON tr.id = t.trainer_id
`

// ListActiveTrainings returns summaries of active trainings, newest first.
func (r *TrainingRepository) ListActiveTrainings(ctx context.Context, userID shared.UserID) ([]*training.TrainingSummary, error) {
	query := summaryQuery + `
	WHERE t.is_active
	ORDER BY t.created_at DESC
	`
	return r.querySummaries(ctx, query, userID.String())
}

// ListTrainerTrainings returns a trainer's trainings, inactive included.
func (r *TrainingRepository) ListTrainerTrainings(ctx context.Context, trainerID shared.TrainerID) ([]*training.TrainingSummary, error) {
	query := summaryQuery + `
	WHERE t.trainer_id::text = $2
	ORDER BY t.created_at DESC
	`
	return r.querySummaries(ctx, query, "", trainerID.String())
}

func (r *TrainingRepository) querySummaries(ctx context.Context, query string, args ...interface{}) ([]*training.TrainingSummary, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query training summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*training.TrainingSummary
	for rows.Next() {
		var s training.TrainingSummary
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.DurationMin, &s.XpReward,
			&s.Difficulty, &s.TrainerName, &s.ExerciseCount, &s.IsCompleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan training summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// GetExercise returns an exercise by ID.
func (r *TrainingRepository) GetExercise(ctx context.Context, id string) (*training.Exercise, error) {
	query := `
		SELECT id, trainer_id, title, category, difficulty, base_points,
			   suggested_duration_min, is_active
		FROM exercises
		WHERE id = $1
	`
	var ex training.Exercise
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&ex.ID, &ex.TrainerID, &ex.Title, &ex.Category, &ex.Difficulty,
		&ex.BasePoints, &ex.SuggestedDurationMin, &ex.IsActive,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to read exercise: %w", err)
	}
	return &ex, nil
}

// CreateExerciseLog persists a performed-exercise record.
func (r *TrainingRepository) CreateExerciseLog(ctx context.Context, log *training.ExerciseLog) error {
	insert := `
		INSERT INTO exercise_logs (
			id, user_id, exercise_id, performed_at, duration_min, points_awarded, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.conn.Exec(ctx, insert,
		log.ID, log.UserID.String(), log.ExerciseID, log.PerformedAt,
		log.DurationMin, log.PointsAwarded, log.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create exercise log: %w", err)
	}
	return nil
}

// ListExerciseLogs returns a user's logs, newest first, optionally bounded by
// a time window (zero times mean unbounded).
func (r *TrainingRepository) ListExerciseLogs(ctx context.Context, userID shared.UserID, from, to time.Time) ([]*training.ExerciseLog, error) {
	query := `
		SELECT l.id, l.user_id, l.exercise_id, COALESCE(e.title, ''), COALESCE(e.category, ''),
			   l.performed_at, l.duration_min, l.points_awarded, l.notes
		FROM exercise_logs l
		LEFT JOIN exercises e ON e.id = l.exercise_id
		WHERE l.user_id = $1
		  AND ($2::timestamptz IS NULL OR l.performed_at >= $2)
		  AND ($3::timestamptz IS NULL OR l.performed_at <= $3)
		ORDER BY l.performed_at DESC
	`
	rows, err := r.conn.Query(ctx, query, userID.String(), nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query exercise logs: %w", err)
	}
	defer rows.Close()

	var logs []*training.ExerciseLog
	for rows.Next() {
		var l training.ExerciseLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ExerciseID, &l.ExerciseTitle, &l.Category,
			&l.PerformedAt, &l.DurationMin, &l.PointsAwarded, &l.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exercise log: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// GetExerciseSummary aggregates a user's logged workouts.
func (r *TrainingRepository) GetExerciseSummary(ctx context.Context, userID shared.UserID) (*training.ExerciseSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(duration_min), 0), COALESCE(SUM(points_awarded), 0)
		FROM exercise_logs
		WHERE user_id = $1
	`
	var s training.ExerciseSummary
	err := r.conn.QueryRow(ctx, query, userID.String()).Scan(
		&s.TotalWorkouts, &s.TotalMinutes, &s.TotalPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise summary: %w", err)
	}
	return &s, nil
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
