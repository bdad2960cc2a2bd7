package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/application/saga"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/training"
)

type validateCompletionFixture struct {
	handler        *ValidateCompletionHandler
	completionRepo *fakeCompletionRepo
	progressRepo   *fakeProgressRepo
	bus            *capturingBus
}

func newValidateCompletionFixture() *validateCompletionFixture {
	completionRepo := newFakeCompletionRepo()
	progressRepo := newFakeProgressRepo()
	achievementRepo := newFakeAchievementRepo()
	bus := &capturingBus{}

	flow := saga.NewAchievementFlow(achievementRepo, completionRepo, bus, nil)
	handler := NewValidateCompletionHandler(completionRepo, progressRepo, flow, bus, nil)

	return &validateCompletionFixture{
		handler:        handler,
		completionRepo: completionRepo,
		progressRepo:   progressRepo,
		bus:            bus,
	}
}

func (f *validateCompletionFixture) addCompletion(id string, status training.ValidationStatus, xpGranted int) {
	f.completionRepo.completions[id] = &training.TrainingCompletion{
		ID:           id,
		TrainingID:   "t1",
		TrainingName: "Morning Strength",
		UserID:       shared.UserID(testUserID),
		CompletedAt:  time.Now().UTC(),
		XpGranted:    xpGranted,
		Status:       status,
	}
}

func TestValidateCompletion_ApproveAwardsStoredGrant(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	result, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, training.StatusValidated, result.Status)
	assert.Equal(t, 200, result.XpAwarded)
	assert.Equal(t, 200, result.NewTotalXp)

	types := f.bus.typesSeen()
	assert.Contains(t, types, shared.EventXPChanged)
	assert.Contains(t, types, shared.EventCompletionValidated)
}

func TestValidateCompletion_ApproveWithAdjustment(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	adjusted := 50
	result, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
		XpAdjustment: &adjusted,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, result.XpAwarded)
	assert.Equal(t, 50, result.NewTotalXp)
}

func TestValidateCompletion_ZeroAdjustmentGrantsNothing(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	zero := 0
	result, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
		XpAdjustment: &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, training.StatusValidated, result.Status)
	assert.Zero(t, result.XpAwarded)
	assert.Zero(t, result.NewTotalXp)
}

func TestValidateCompletion_RejectAwardsNothing(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	result, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     false,
	})
	require.NoError(t, err)

	assert.Equal(t, training.StatusRejected, result.Status)
	assert.Zero(t, result.XpAwarded)
	assert.Zero(t, result.NewTotalXp)

	// The default note is stamped when the trainer gives none.
	completion, err := f.completionRepo.GetCompletion(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, RejectedDefaultNote, completion.Notes)

	types := f.bus.typesSeen()
	assert.NotContains(t, types, shared.EventXPChanged)
	assert.Contains(t, types, shared.EventCompletionRejected)
}

func TestValidateCompletion_DoubleValidationRefused(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	_, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
	})
	require.NoError(t, err)

	// Second attempt finds a resolved completion.
	_, err = f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyResolved)

	// The user was credited exactly once.
	level, err := f.progressRepo.GetOrCreateUserLevel(context.Background(), shared.UserID(testUserID))
	require.NoError(t, err)
	assert.Equal(t, 200, level.TotalXp)
}

func TestValidateCompletion_AutoApprovedNeverPending(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusAutoApproved, 100)

	_, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
	})
	assert.ErrorIs(t, err, shared.ErrNotPending)
}

func TestValidateCompletion_UnknownCompletion(t *testing.T) {
	f := newValidateCompletionFixture()

	_, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "missing",
		Approved:     true,
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestValidateCompletion_NegativeAdjustmentRefused(t *testing.T) {
	f := newValidateCompletionFixture()
	f.addCompletion("c1", training.StatusPending, 200)

	negative := -10
	_, err := f.handler.Handle(context.Background(), ValidateCompletionCommand{
		TrainerID:    testTrainerID,
		CompletionID: "c1",
		Approved:     true,
		XpAdjustment: &negative,
	})
	assert.Error(t, err)
}
