package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_FirstTraining(t *testing.T) {
	unlocked := Check(CheckInput{CompletionCount: 1, CurrentLevel: 1})
	assert.Contains(t, unlocked, TypeFirstTraining)

	// Fires only on the exact first counted completion.
	unlocked = Check(CheckInput{CompletionCount: 2, CurrentLevel: 1})
	assert.NotContains(t, unlocked, TypeFirstTraining)
}

func TestCheck_CompletionMilestones(t *testing.T) {
	unlocked := Check(CheckInput{CompletionCount: 10, CurrentLevel: 1})
	assert.Contains(t, unlocked, TypeTenTrainings)
	assert.NotContains(t, unlocked, TypeFiftyTrainings)

	// Crossing a threshold late still awards everything missed.
	unlocked = Check(CheckInput{CompletionCount: 120, CurrentLevel: 1})
	assert.Contains(t, unlocked, TypeTenTrainings)
	assert.Contains(t, unlocked, TypeFiftyTrainings)
	assert.Contains(t, unlocked, TypeHundredTrainings)
}

func TestCheck_StreakBadges(t *testing.T) {
	unlocked := Check(CheckInput{CompletionCount: 5, Streak: 7, CurrentLevel: 2})
	assert.Contains(t, unlocked, TypeSevenDayStreak)
	assert.NotContains(t, unlocked, TypeThirtyDayStreak)

	unlocked = Check(CheckInput{CompletionCount: 40, Streak: 30, CurrentLevel: 3})
	assert.Contains(t, unlocked, TypeSevenDayStreak)
	assert.Contains(t, unlocked, TypeThirtyDayStreak)
}

func TestCheck_LevelBadges(t *testing.T) {
	unlocked := Check(CheckInput{CompletionCount: 3, CurrentLevel: 2, JustLeveledUp: true})
	assert.Contains(t, unlocked, TypeLevelUp)
	assert.NotContains(t, unlocked, TypeLevel5)

	unlocked = Check(CheckInput{CompletionCount: 200, CurrentLevel: 10, JustLeveledUp: true})
	assert.Contains(t, unlocked, TypeLevel5)
	assert.Contains(t, unlocked, TypeLevel10)
}

func TestCheck_HeldExcluded(t *testing.T) {
	unlocked := Check(CheckInput{
		CompletionCount: 10,
		Streak:          7,
		CurrentLevel:    2,
		Held:            []Type{TypeTenTrainings, TypeSevenDayStreak},
	})
	assert.NotContains(t, unlocked, TypeTenTrainings)
	assert.NotContains(t, unlocked, TypeSevenDayStreak)
}

func TestCheck_Idempotent(t *testing.T) {
	in := CheckInput{CompletionCount: 50, Streak: 7, CurrentLevel: 5, JustLeveledUp: true}

	first := Check(in)
	assert.NotEmpty(t, first)

	// Re-running with the first awards held returns nothing new.
	in.Held = append(in.Held, first...)
	in.JustLeveledUp = true
	second := Check(in)
	assert.Empty(t, second)
}
