package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromXP_TierBoundaries(t *testing.T) {
	tests := []struct {
		totalXP int
		level   int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{1499, 2},
		{1500, 3},
		{4999, 4},
		{5000, 5},
		{29999, 9},
		{30000, 10},
		{1000000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelFromXP(tt.totalXP), "totalXP=%d", tt.totalXP)
	}
}

func TestLevelFromXP_NegativeTotal(t *testing.T) {
	assert.Equal(t, 1, LevelFromXP(-50))
}

func TestNextLevelXP(t *testing.T) {
	assert.Equal(t, 500, NextLevelXP(1))
	assert.Equal(t, 1500, NextLevelXP(2))
	assert.Equal(t, 30000, NextLevelXP(9))

	// Top tier has no next threshold.
	assert.Equal(t, NoNextLevel, NextLevelXP(10))
	assert.Equal(t, NoNextLevel, NextLevelXP(99))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Beginner", LevelLabel(1))
	assert.Equal(t, "Expert", LevelLabel(5))
	assert.Equal(t, "Mythic", LevelLabel(10))
	assert.Equal(t, "Unknown", LevelLabel(11))
	assert.Equal(t, "Unknown", LevelLabel(0))
}

func TestLevelMinXP(t *testing.T) {
	assert.Equal(t, 0, LevelMinXP(1))
	assert.Equal(t, 7500, LevelMinXP(6))
	assert.Equal(t, 0, LevelMinXP(42))
}
