package command

import (
	"context"
	"sync"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

// Well-formed IDs for test fixtures.
const (
	testUserID    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	testTrainerID = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

// ─── fakeTrainingRepo ────────────────────────────────────────────────────────

type fakeTrainingRepo struct {
	trainings map[string]*training.Training
	exercises map[string]*training.Exercise
	logs      []*training.ExerciseLog
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{
		trainings: make(map[string]*training.Training),
		exercises: make(map[string]*training.Exercise),
	}
}

func (r *fakeTrainingRepo) CreateTraining(_ context.Context, t *training.Training) error {
	r.trainings[t.ID] = t
	return nil
}

func (r *fakeTrainingRepo) GetTraining(_ context.Context, id string) (*training.Training, error) {
	t, ok := r.trainings[id]
	if !ok {
		return nil, shared.ErrTrainingNotFound
	}
	return t, nil
}

func (r *fakeTrainingRepo) ListActiveTrainings(_ context.Context, _ shared.UserID) ([]*training.TrainingSummary, error) {
	return nil, nil
}

func (r *fakeTrainingRepo) ListTrainerTrainings(_ context.Context, _ shared.TrainerID) ([]*training.TrainingSummary, error) {
	return nil, nil
}

func (r *fakeTrainingRepo) GetExercise(_ context.Context, id string) (*training.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, shared.ErrExerciseNotFound
	}
	return e, nil
}

func (r *fakeTrainingRepo) CreateExerciseLog(_ context.Context, log *training.ExerciseLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeTrainingRepo) ListExerciseLogs(_ context.Context, _ shared.UserID, _, _ time.Time) ([]*training.ExerciseLog, error) {
	return r.logs, nil
}

func (r *fakeTrainingRepo) GetExerciseSummary(_ context.Context, _ shared.UserID) (*training.ExerciseSummary, error) {
	return &training.ExerciseSummary{}, nil
}

// ─── fakeCompletionRepo ──────────────────────────────────────────────────────

type fakeCompletionRepo struct {
	completions map[string]*training.TrainingCompletion
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{completions: make(map[string]*training.TrainingCompletion)}
}

func (r *fakeCompletionRepo) CreateCompletion(_ context.Context, c *training.TrainingCompletion) error {
	r.completions[c.ID] = c
	return nil
}

func (r *fakeCompletionRepo) GetCompletion(_ context.Context, id string) (*training.TrainingCompletion, error) {
	c, ok := r.completions[id]
	if !ok {
		return nil, shared.ErrCompletionNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCompletionRepo) FinalizeValidation(_ context.Context, completionID string, trainerID shared.TrainerID, status training.ValidationStatus, xpGranted int, notes string, validatedAt time.Time) error {
	c, ok := r.completions[completionID]
	if !ok {
		return shared.ErrCompletionNotFound
	}
	// Conditional flip: only a pending completion transitions.
	if c.Status != training.StatusPending {
		return shared.ErrNotPending
	}
	c.Status = status
	c.ValidatedByTrainerID = trainerID
	c.XpGranted = xpGranted
	c.Notes = notes
	c.ValidatedAt = &validatedAt
	return nil
}

func (r *fakeCompletionRepo) ListUserCompletions(_ context.Context, userID shared.UserID, _ int) ([]*training.TrainingCompletion, error) {
	var out []*training.TrainingCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCompletionRepo) ListPendingValidations(_ context.Context, _ shared.TrainerID) ([]*training.TrainingCompletion, error) {
	var out []*training.TrainingCompletion
	for _, c := range r.completions {
		if c.Status == training.StatusPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCompletionRepo) CountCounted(_ context.Context, userID shared.UserID) (int, error) {
	n := 0
	for _, c := range r.completions {
		if c.UserID == userID && c.Status.IsCounted() {
			n++
		}
	}
	return n, nil
}

func (r *fakeCompletionRepo) CountedCompletionTimes(_ context.Context, userID shared.UserID, _ int, _ time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, c := range r.completions {
		if c.UserID == userID && c.Status.IsCounted() {
			out = append(out, c.CompletedAt)
		}
	}
	return out, nil
}

// ─── fakeProgressRepo ────────────────────────────────────────────────────────

type fakeProgressRepo struct {
	levels       map[shared.UserID]*progression.UserLevel
	transactions []*progression.XpTransaction
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{levels: make(map[shared.UserID]*progression.UserLevel)}
}

func (r *fakeProgressRepo) GetOrCreateUserLevel(_ context.Context, userID shared.UserID) (*progression.UserLevel, error) {
	if level, ok := r.levels[userID]; ok {
		return level, nil
	}
	level := progression.NewUserLevel(userID)
	r.levels[userID] = level
	return level, nil
}

func (r *fakeProgressRepo) AddXp(ctx context.Context, userID shared.UserID, amount int, mutation progression.XpMutation) (*progression.XpResult, error) {
	level, _ := r.GetOrCreateUserLevel(ctx, userID)
	oldLevel := level.CurrentLevel
	before, after, leveledUp := level.ApplyDelta(amount, time.Now().UTC())

	r.transactions = append(r.transactions, &progression.XpTransaction{
		UserID:          userID,
		TransactionType: mutation.Type,
		SourceID:        mutation.SourceID,
		XpDelta:         amount,
		XpBefore:        before,
		XpAfter:         after,
		Reason:          mutation.Reason,
	})

	return &progression.XpResult{
		XpBefore:   before,
		NewTotalXp: after,
		OldLevel:   oldLevel,
		NewLevel:   level.CurrentLevel,
		LeveledUp:  leveledUp,
	}, nil
}

func (r *fakeProgressRepo) ResetXp(ctx context.Context, userID shared.UserID, newTotal int, reason string, trainerID shared.TrainerID) (*progression.XpResult, error) {
	level, _ := r.GetOrCreateUserLevel(ctx, userID)
	before := level.TotalXp
	oldLevel := level.CurrentLevel
	delta := level.SetTotal(newTotal, time.Now().UTC())

	r.transactions = append(r.transactions, &progression.XpTransaction{
		UserID:             userID,
		TransactionType:    progression.TransactionReset,
		XpDelta:            delta,
		XpBefore:           before,
		XpAfter:            level.TotalXp,
		Reason:             reason,
		AwardedByTrainerID: trainerID,
	})

	return &progression.XpResult{
		XpBefore:   before,
		NewTotalXp: level.TotalXp,
		OldLevel:   oldLevel,
		NewLevel:   level.CurrentLevel,
		LeveledUp:  level.CurrentLevel > oldLevel,
	}, nil
}

func (r *fakeProgressRepo) GetXpHistory(_ context.Context, userID shared.UserID, limit int) ([]*progression.XpTransaction, error) {
	var out []*progression.XpTransaction
	for i := len(r.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.transactions[i].UserID == userID {
			out = append(out, r.transactions[i])
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) ListTotals(_ context.Context) (map[shared.UserID]int, error) {
	totals := make(map[shared.UserID]int, len(r.levels))
	for id, level := range r.levels {
		totals[id] = level.TotalXp
	}
	return totals, nil
}

// ─── fakeAchievementRepo ─────────────────────────────────────────────────────

type fakeAchievementRepo struct {
	held map[shared.UserID][]achievement.Type
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{held: make(map[shared.UserID][]achievement.Type)}
}

func (r *fakeAchievementRepo) ListByUser(_ context.Context, _ shared.UserID) ([]*achievement.Achievement, error) {
	return nil, nil
}

func (r *fakeAchievementRepo) ListHeldTypes(_ context.Context, userID shared.UserID) ([]achievement.Type, error) {
	return r.held[userID], nil
}

func (r *fakeAchievementRepo) SaveAll(_ context.Context, achievements []*achievement.Achievement) ([]*achievement.Achievement, error) {
	var inserted []*achievement.Achievement
	for _, a := range achievements {
		dup := false
		for _, t := range r.held[a.UserID] {
			if t == a.AchievementType {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		r.held[a.UserID] = append(r.held[a.UserID], a.AchievementType)
		inserted = append(inserted, a)
	}
	return inserted, nil
}

// ─── capturingBus ────────────────────────────────────────────────────────────

type capturingBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *capturingBus) Publish(event shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *capturingBus) typesSeen() []shared.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]shared.EventType, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventType())
	}
	return out
}
