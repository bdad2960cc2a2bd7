package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/application/saga"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

type completeTrainingFixture struct {
	handler        *CompleteTrainingHandler
	trainingRepo   *fakeTrainingRepo
	completionRepo *fakeCompletionRepo
	progressRepo   *fakeProgressRepo
	bus            *capturingBus
}

func newCompleteTrainingFixture() *completeTrainingFixture {
	trainingRepo := newFakeTrainingRepo()
	completionRepo := newFakeCompletionRepo()
	progressRepo := newFakeProgressRepo()
	achievementRepo := newFakeAchievementRepo()
	bus := &capturingBus{}

	flow := saga.NewAchievementFlow(achievementRepo, completionRepo, bus, nil)
	handler := NewCompleteTrainingHandler(trainingRepo, completionRepo, progressRepo, flow, bus, nil)

	return &completeTrainingFixture{
		handler:        handler,
		trainingRepo:   trainingRepo,
		completionRepo: completionRepo,
		progressRepo:   progressRepo,
		bus:            bus,
	}
}

func (f *completeTrainingFixture) addTraining(id string, xpReward int, requiresValidation, isActive bool) {
	f.trainingRepo.trainings[id] = &training.Training{
		ID:                 id,
		TrainerID:          shared.TrainerID(testTrainerID),
		Name:               "Morning Strength",
		XpReward:           xpReward,
		Difficulty:         3,
		RequiresValidation: requiresValidation,
		IsActive:           isActive,
		CreatedAt:          time.Now().UTC(),
	}
}

func TestCompleteTraining_AutoApproveAwardsXP(t *testing.T) {
	f := newCompleteTrainingFixture()
	f.addTraining("t1", 150, false, true)

	result, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     testUserID,
		TrainingID: "t1",
	})
	require.NoError(t, err)

	assert.Equal(t, training.StatusAutoApproved, result.Status)
	assert.Equal(t, 150, result.XpAwarded)
	assert.Equal(t, 150, result.NewTotalXp)
	assert.Equal(t, 1, result.NewLevel)
	assert.False(t, result.LeveledUp)

	// First counted completion unlocks the first-training badge.
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, achievement.TypeFirstTraining, result.NewAchievements[0].AchievementType)

	// XP change and completion both hit the bus.
	types := f.bus.typesSeen()
	assert.Contains(t, types, shared.EventXPChanged)
	assert.Contains(t, types, shared.EventTrainingCompleted)
	assert.Contains(t, types, shared.EventAchievementUnlocked)
}

func TestCompleteTraining_LevelUpCrossesTier(t *testing.T) {
	f := newCompleteTrainingFixture()
	f.addTraining("t1", 600, false, true)

	result, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     testUserID,
		TrainingID: "t1",
	})
	require.NoError(t, err)

	assert.Equal(t, 600, result.NewTotalXp)
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LeveledUp)
	assert.Contains(t, f.bus.typesSeen(), shared.EventLevelUp)
}

func TestCompleteTraining_PendingHoldsXP(t *testing.T) {
	f := newCompleteTrainingFixture()
	f.addTraining("t1", 200, true, true)

	result, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     testUserID,
		TrainingID: "t1",
	})
	require.NoError(t, err)

	assert.Equal(t, training.StatusPending, result.Status)
	assert.Zero(t, result.XpAwarded)
	assert.Zero(t, result.NewTotalXp)
	assert.Equal(t, 1, result.NewLevel)
	assert.Empty(t, result.NewAchievements)

	// The completion exists in Pending with the baseline grant stored.
	completion, err := f.completionRepo.GetCompletion(context.Background(), result.CompletionID)
	require.NoError(t, err)
	assert.Equal(t, training.StatusPending, completion.Status)
	assert.Equal(t, 200, completion.XpGranted)

	// No XP event; the completion event still fires.
	types := f.bus.typesSeen()
	assert.NotContains(t, types, shared.EventXPChanged)
	assert.Contains(t, types, shared.EventTrainingCompleted)
}

func TestCompleteTraining_InactiveTrainingRefused(t *testing.T) {
	f := newCompleteTrainingFixture()
	f.addTraining("t1", 100, false, false)

	_, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     testUserID,
		TrainingID: "t1",
	})
	assert.ErrorIs(t, err, shared.ErrInactiveTraining)
}

func TestCompleteTraining_UnknownTraining(t *testing.T) {
	f := newCompleteTrainingFixture()

	_, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     testUserID,
		TrainingID: "missing",
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestCompleteTraining_InvalidCommand(t *testing.T) {
	f := newCompleteTrainingFixture()
	f.addTraining("t1", 100, false, true)

	_, err := f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID:     "not-a-uuid",
		TrainingID: "t1",
	})
	assert.Error(t, err)

	_, err = f.handler.Handle(context.Background(), CompleteTrainingCommand{
		UserID: testUserID,
	})
	assert.Error(t, err)
}
