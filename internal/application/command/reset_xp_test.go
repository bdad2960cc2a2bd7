package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

func TestResetXp_DefaultsToZero(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	bus := &capturingBus{}
	handler := NewResetXpHandler(progressRepo, bus, nil)
	ctx := context.Background()

	// Seed the user with some XP.
	_, err := progressRepo.AddXp(ctx, shared.UserID(testUserID), 1800, progression.XpMutation{
		Type: progression.TransactionAdjustment, Reason: "seed"})
	require.NoError(t, err)

	result, err := handler.Handle(ctx, ResetXpCommand{
		UserID:    testUserID,
		TrainerID: testTrainerID,
		Reason:    "Season restart",
	})
	require.NoError(t, err)

	assert.Zero(t, result.NewTotalXp)
	assert.Equal(t, 1, result.NewLevel)

	// The ledger delta is target minus old total.
	last := progressRepo.transactions[len(progressRepo.transactions)-1]
	assert.Equal(t, progression.TransactionReset, last.TransactionType)
	assert.Equal(t, -1800, last.XpDelta)

	assert.Contains(t, bus.typesSeen(), shared.EventXPChanged)
}

func TestResetXp_AbsoluteTarget(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	handler := NewResetXpHandler(progressRepo, nil, nil)
	ctx := context.Background()

	_, err := progressRepo.AddXp(ctx, shared.UserID(testUserID), 100, progression.XpMutation{
		Type: progression.TransactionAdjustment, Reason: "seed"})
	require.NoError(t, err)

	target := 750
	result, err := handler.Handle(ctx, ResetXpCommand{
		UserID:    testUserID,
		TrainerID: testTrainerID,
		NewValue:  &target,
		Reason:    "Migrated from legacy system",
	})
	require.NoError(t, err)

	// Absolute, not additive.
	assert.Equal(t, 750, result.NewTotalXp)
	assert.Equal(t, 2, result.NewLevel)
}

func TestResetXp_Validation(t *testing.T) {
	handler := NewResetXpHandler(newFakeProgressRepo(), nil, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, ResetXpCommand{
		UserID: testUserID, TrainerID: testTrainerID, Reason: ""})
	assert.Error(t, err)

	negative := -5
	_, err = handler.Handle(ctx, ResetXpCommand{
		UserID: testUserID, TrainerID: testTrainerID, NewValue: &negative, Reason: "r"})
	assert.Error(t, err)
}
