package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 10, 14, 35, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), StartOfDay(ts))

	// Non-UTC input normalizes to the UTC date.
	loc := time.FixedZone("UTC+5", 5*3600)
	early := time.Date(2026, 3, 10, 2, 0, 0, 0, loc) // 2026-03-09 21:00 UTC
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), StartOfDay(early))
}

func TestEndOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := EndOfDay(ts)

	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 999999999, time.UTC), end)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("10.03.2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", FormatDate(ts))
}

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(evening, nextDay))
}

func TestIsConsecutiveDay(t *testing.T) {
	d1 := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)

	assert.True(t, IsConsecutiveDay(d1, d2))
	assert.False(t, IsConsecutiveDay(d2, d1))
	assert.False(t, IsConsecutiveDay(d1, d1))
}

func TestDaysBetween(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 9, DaysBetween(d1, d2))
	assert.Equal(t, -9, DaysBetween(d2, d1))
	assert.Equal(t, 0, DaysBetween(d1, d1))
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), DaysAgo(now, 7))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), DaysAgo(now, 0))
}
