package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCurrentStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(nil, day("2026-03-10")))
}

func TestCurrentStreak_TodayOnly(t *testing.T) {
	today := day("2026-03-10")
	completions := []time.Time{today.Add(9 * time.Hour)}

	assert.Equal(t, 1, CurrentStreak(completions, today))
}

func TestCurrentStreak_ConsecutiveRun(t *testing.T) {
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-10").Add(7 * time.Hour),
		day("2026-03-09").Add(18 * time.Hour),
		day("2026-03-08").Add(12 * time.Hour),
	}

	assert.Equal(t, 3, CurrentStreak(completions, today))
}

func TestCurrentStreak_AnchoredAtYesterday(t *testing.T) {
	// A run ending yesterday is still alive while today is in progress.
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-09").Add(20 * time.Hour),
		day("2026-03-08").Add(8 * time.Hour),
	}

	assert.Equal(t, 2, CurrentStreak(completions, today))
}

func TestCurrentStreak_BrokenByGap(t *testing.T) {
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-10").Add(7 * time.Hour),
		day("2026-03-09"),
		// Gap on 2026-03-08.
		day("2026-03-07"),
		day("2026-03-06"),
	}

	assert.Equal(t, 2, CurrentStreak(completions, today))
}

func TestCurrentStreak_OldRunDoesNotCount(t *testing.T) {
	// The last counted day is before yesterday, so the streak is over.
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-07"),
		day("2026-03-06"),
		day("2026-03-05"),
	}

	assert.Equal(t, 0, CurrentStreak(completions, today))
}

func TestCurrentStreak_DuplicateDaysCollapse(t *testing.T) {
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-10").Add(6 * time.Hour),
		day("2026-03-10").Add(19 * time.Hour),
		day("2026-03-10").Add(22 * time.Hour),
		day("2026-03-09").Add(10 * time.Hour),
	}

	assert.Equal(t, 2, CurrentStreak(completions, today))
}

func TestCurrentStreak_UnorderedInput(t *testing.T) {
	today := day("2026-03-10")
	completions := []time.Time{
		day("2026-03-08"),
		day("2026-03-10"),
		day("2026-03-09"),
	}

	assert.Equal(t, 3, CurrentStreak(completions, today))
}
