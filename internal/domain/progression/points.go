package progression

import (
	"math"
)

// Bounds for the duration factor. Finishing in half the suggested time (or
// less) still counts as half credit; grinding longer caps at 1.5x.
const (
	minDurationFactor = 0.5
	maxDurationFactor = 1.5
)

// CalculatePoints converts a single exercise performance into a point score.
//
//	multiplier = 0.8 + 0.2 × difficulty   (difficulty 1→1.0, 5→1.8)
//	factor     = clamp(actual/target, 0.5, 1.5), 1.0 when target is zero
//	result     = round(basePoints × multiplier × factor)
//
// Rounding is half away from zero (math.Round). Pure function, no failure modes.
func CalculatePoints(basePoints, difficulty, actualDurationMin, targetDurationMin int) int {
	difficultyMultiplier := 0.8 + 0.2*float64(difficulty)

	ratio := 1.0
	if targetDurationMin > 0 {
		ratio = float64(actualDurationMin) / float64(targetDurationMin)
	}
	durationFactor := math.Min(math.Max(ratio, minDurationFactor), maxDurationFactor)

	return int(math.Round(float64(basePoints) * difficultyMultiplier * durationFactor))
}
