package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCron_EveryFiveMinutes(t *testing.T) {
	s, err := ParseCron("*/5 * * * *")
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", s.String())

	from := time.Date(2026, 3, 10, 12, 2, 30, 0, time.UTC)
	next := s.Next(from)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC), next)
}

func TestParseCron_DailyAtThree(t *testing.T) {
	s, err := ParseCron("0 3 * * *")
	require.NoError(t, err)

	from := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	next := s.Next(from)
	assert.Equal(t, time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC), next)
}

func TestParseCron_Invalid(t *testing.T) {
	_, err := ParseCron("not a cron spec")
	assert.Error(t, err)

	_, err = ParseCron("")
	assert.Error(t, err)
}

func TestEvery(t *testing.T) {
	s := Every(10 * time.Minute)
	assert.Equal(t, "@every 10m0s", s.String())

	from := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	next := s.Next(from)
	assert.Equal(t, from.Add(10*time.Minute), next)
}
