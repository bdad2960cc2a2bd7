// Package postgres implements the PostgreSQL persistence layer for the
// progression engine.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CATALOG (trainers, users, exercises, trainings)
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create the trainer/user directory and the training catalog
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trainers (
    id UUID PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS exercises (
    id UUID PRIMARY KEY,
    trainer_id UUID NOT NULL REFERENCES trainers(id),
    title VARCHAR(200) NOT NULL,
    category VARCHAR(50) NOT NULL DEFAULT '',
    difficulty INTEGER NOT NULL DEFAULT 1,
    base_points INTEGER NOT NULL DEFAULT 0,
    suggested_duration_min INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT exercises_valid_difficulty CHECK (difficulty BETWEEN 1 AND 5),
    CONSTRAINT exercises_valid_base_points CHECK (base_points >= 0)
);

CREATE INDEX IF NOT EXISTS idx_exercises_trainer_id ON exercises(trainer_id);

CREATE TABLE IF NOT EXISTS trainings (
    id UUID PRIMARY KEY,
    trainer_id UUID NOT NULL REFERENCES trainers(id),
    name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    duration_min INTEGER NOT NULL DEFAULT 0,
    xp_reward INTEGER NOT NULL DEFAULT 0,
    difficulty INTEGER NOT NULL DEFAULT 1,
    requires_validation BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT trainings_valid_difficulty CHECK (difficulty BETWEEN 1 AND 5),
    CONSTRAINT trainings_valid_xp_reward CHECK (xp_reward >= 0)
);

CREATE INDEX IF NOT EXISTS idx_trainings_trainer_id ON trainings(trainer_id);
CREATE INDEX IF NOT EXISTS idx_trainings_active ON trainings(created_at DESC) WHERE is_active;

CREATE TABLE IF NOT EXISTS training_exercises (
    id UUID PRIMARY KEY,
    training_id UUID NOT NULL REFERENCES trainings(id) ON DELETE CASCADE,
    exercise_id UUID NOT NULL REFERENCES exercises(id),
    sort_order INTEGER NOT NULL DEFAULT 0,
    sets INTEGER NOT NULL DEFAULT 0,
    reps INTEGER NOT NULL DEFAULT 0,
    rest_seconds INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_training_exercises_training ON training_exercises(training_id, sort_order);
`

const migration001Down = `
DROP TABLE IF EXISTS training_exercises;
DROP TABLE IF EXISTS trainings;
DROP TABLE IF EXISTS exercises;
DROP TABLE IF EXISTS trainers;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: PROGRESSION (levels, ledger, completions, exercise logs)
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create the XP ledger and the completion state machine
-- Version: 002

CREATE TABLE IF NOT EXISTS user_levels (
    user_id UUID PRIMARY KEY REFERENCES users(id),
    current_level INTEGER NOT NULL DEFAULT 1,
    total_xp INTEGER NOT NULL DEFAULT 0,
    last_updated TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT user_levels_valid_xp CHECK (total_xp >= 0),
    CONSTRAINT user_levels_valid_level CHECK (current_level >= 1)
);

-- Append-only XP ledger. Every mutation of user_levels.total_xp writes a row
-- here in the same transaction.
CREATE TABLE IF NOT EXISTS xp_transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    transaction_type VARCHAR(30) NOT NULL,
    source_id UUID,
    xp_delta INTEGER NOT NULL,
    xp_before INTEGER NOT NULL,
    xp_after INTEGER NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    awarded_by_trainer_id UUID REFERENCES trainers(id),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT xp_transactions_valid_type CHECK (
        transaction_type IN ('training_completion', 'bonus_from_trainer', 'reset', 'adjustment')
    )
);

CREATE INDEX IF NOT EXISTS idx_xp_transactions_user ON xp_transactions(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS training_completions (
    id UUID PRIMARY KEY,
    training_id UUID NOT NULL REFERENCES trainings(id),
    user_id UUID NOT NULL REFERENCES users(id),
    completed_at TIMESTAMP WITH TIME ZONE NOT NULL,
    xp_granted INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL,
    validated_by_trainer_id UUID REFERENCES trainers(id),
    validated_at TIMESTAMP WITH TIME ZONE,
    notes TEXT NOT NULL DEFAULT '',

    CONSTRAINT completions_valid_status CHECK (
        status IN ('auto_approved', 'pending', 'validated', 'rejected')
    ),
    CONSTRAINT completions_valid_grant CHECK (xp_granted >= 0)
);

CREATE INDEX IF NOT EXISTS idx_completions_user ON training_completions(user_id, completed_at DESC);
CREATE INDEX IF NOT EXISTS idx_completions_training ON training_completions(training_id);
CREATE INDEX IF NOT EXISTS idx_completions_pending ON training_completions(completed_at DESC) WHERE status = 'pending';

CREATE TABLE IF NOT EXISTS exercise_logs (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    exercise_id UUID NOT NULL REFERENCES exercises(id),
    performed_at TIMESTAMP WITH TIME ZONE NOT NULL,
    duration_min INTEGER NOT NULL,
    points_awarded INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',

    CONSTRAINT exercise_logs_valid_duration CHECK (duration_min > 0)
);

CREATE INDEX IF NOT EXISTS idx_exercise_logs_user ON exercise_logs(user_id, performed_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS exercise_logs;
DROP TABLE IF EXISTS training_completions;
DROP TABLE IF EXISTS xp_transactions;
DROP TABLE IF EXISTS user_levels;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create the awarded-achievements table
-- Version: 003

-- The UNIQUE constraint is the idempotence guarantee for concurrent award
-- attempts; inserts go through ON CONFLICT DO NOTHING.
CREATE TABLE IF NOT EXISTS achievements (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    achievement_type VARCHAR(50) NOT NULL,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    awarded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, achievement_type)
);

CREATE INDEX IF NOT EXISTS idx_achievements_user ON achievements(user_id, awarded_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS achievements;
`
