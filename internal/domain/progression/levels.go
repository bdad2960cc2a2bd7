// Package progression contains the domain model for user XP, levels, and streaks.
// This is a pure domain layer with zero external dependencies.
package progression

import (
	"math"
)

// ═══════════════════════════════════════════════════════════════════════════
// LEVEL DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════

// NoNextLevel is the sentinel returned by NextLevelXP when the user is already
// at the top tier. There is no XP threshold beyond the last level.
const NoNextLevel = math.MaxInt

// LevelDefinition describes one tier of the XP→level mapping.
// MinXp/MaxXp are inclusive; the last tier is unbounded above.
type LevelDefinition struct {
	Level int
	MinXp int
	MaxXp int
	Label string
}

// Levels is the static level table. It is compiled in and never mutated at
// runtime; the storage layer has no say in it.
var Levels = []LevelDefinition{
	{Level: 1, MinXp: 0, MaxXp: 499, Label: "Beginner"},
	{Level: 2, MinXp: 500, MaxXp: 1499, Label: "Novice"},
	{Level: 3, MinXp: 1500, MaxXp: 2999, Label: "Intermediate"},
	{Level: 4, MinXp: 3000, MaxXp: 4999, Label: "Advanced"},
	{Level: 5, MinXp: 5000, MaxXp: 7499, Label: "Expert"},
	{Level: 6, MinXp: 7500, MaxXp: 10499, Label: "Master"},
	{Level: 7, MinXp: 10500, MaxXp: 14999, Label: "Elite"},
	{Level: 8, MinXp: 15000, MaxXp: 19999, Label: "Champion"},
	{Level: 9, MinXp: 20000, MaxXp: 29999, Label: "Legend"},
	{Level: 10, MinXp: 30000, MaxXp: NoNextLevel, Label: "Mythic"},
}

// MaxLevel is the highest defined level.
var MaxLevel = Levels[len(Levels)-1].Level

// LevelFromXP calculates the level for a total XP value.
// Scans tiers from highest to lowest and returns the highest tier whose
// MinXp is covered. Defensively returns level 1 for negative totals.
func LevelFromXP(totalXP int) int {
	for i := len(Levels) - 1; i >= 0; i-- {
		if totalXP >= Levels[i].MinXp {
			return Levels[i].Level
		}
	}
	return 1
}

// NextLevelXP returns the XP threshold for the level after currentLevel,
// or NoNextLevel if the user is already at the top tier.
func NextLevelXP(currentLevel int) int {
	if currentLevel >= len(Levels) {
		return NoNextLevel
	}
	return Levels[currentLevel].MinXp
}

// LevelLabel returns the display label for a level, or "Unknown" if the
// level is not in the table.
func LevelLabel(level int) string {
	for _, def := range Levels {
		if def.Level == level {
			return def.Label
		}
	}
	return "Unknown"
}

// LevelMinXP returns the MinXp threshold of a level, or 0 if unknown.
func LevelMinXP(level int) int {
	for _, def := range Levels {
		if def.Level == level {
			return def.MinXp
		}
	}
	return 0
}
