package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

func TestAwardBonusXp_GrantsAndRecords(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	bus := &capturingBus{}
	handler := NewAwardBonusXpHandler(progressRepo, bus, nil)

	result, err := handler.Handle(context.Background(), AwardBonusXpCommand{
		UserID:    testUserID,
		TrainerID: testTrainerID,
		Amount:    250,
		Reason:    "Great form this week",
	})
	require.NoError(t, err)

	assert.Equal(t, 250, result.NewTotalXp)
	assert.Equal(t, 1, result.NewLevel)

	// Ledger entry is classified as a trainer bonus.
	require.Len(t, progressRepo.transactions, 1)
	assert.Equal(t, progression.TransactionBonusFromTrainer, progressRepo.transactions[0].TransactionType)
	assert.Equal(t, "Great form this week", progressRepo.transactions[0].Reason)

	assert.Contains(t, bus.typesSeen(), shared.EventXPChanged)
}

func TestAwardBonusXp_LevelUpPublishesEvent(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	bus := &capturingBus{}
	handler := NewAwardBonusXpHandler(progressRepo, bus, nil)

	result, err := handler.Handle(context.Background(), AwardBonusXpCommand{
		UserID:    testUserID,
		TrainerID: testTrainerID,
		Amount:    1600,
		Reason:    "Competition placement",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.NewLevel)
	assert.True(t, result.LeveledUp)
	assert.Contains(t, bus.typesSeen(), shared.EventLevelUp)
}

func TestAwardBonusXp_Validation(t *testing.T) {
	handler := NewAwardBonusXpHandler(newFakeProgressRepo(), nil, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AwardBonusXpCommand{
		UserID: testUserID, TrainerID: testTrainerID, Amount: 0, Reason: "r"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, AwardBonusXpCommand{
		UserID: testUserID, TrainerID: testTrainerID, Amount: MaxBonusXp + 1, Reason: "r"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, AwardBonusXpCommand{
		UserID: testUserID, TrainerID: testTrainerID, Amount: 100, Reason: ""})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, AwardBonusXpCommand{
		UserID: "nope", TrainerID: testTrainerID, Amount: 100, Reason: "r"})
	assert.Error(t, err)
}
