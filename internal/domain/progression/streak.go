package progression

import (
	"sort"
	"time"
)

// StreakLookbackDays caps how many distinct days back the streak walk goes.
const StreakLookbackDays = 60

// CurrentStreak returns the number of consecutive UTC calendar days with at
// least one counted completion, anchored at today or yesterday.
//
// The anchor rule keeps a streak alive while today is still in progress: if
// the most recent counted day is not today, the walk starts at yesterday, so
// a user who trained every day up to yesterday still shows that run.
//
// completedAt may contain duplicates and be unordered; today is the reference
// "now" (passed in so the walk is a pure function of its inputs).
func CurrentStreak(completedAt []time.Time, today time.Time) int {
	if len(completedAt) == 0 {
		return 0
	}

	// Collapse to distinct UTC dates, newest first, capped lookback.
	seen := make(map[time.Time]struct{}, len(completedAt))
	dates := make([]time.Time, 0, len(completedAt))
	for _, t := range completedAt {
		day := dayUTC(t)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if len(dates) > StreakLookbackDays {
		dates = dates[:StreakLookbackDays]
	}

	expected := dayUTC(today)
	if !dates[0].Equal(expected) {
		expected = expected.AddDate(0, 0, -1)
	}

	streak := 0
	for _, date := range dates {
		if date.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
		} else if date.Before(expected) {
			break
		}
	}

	return streak
}

// dayUTC truncates a timestamp to its UTC calendar date.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
