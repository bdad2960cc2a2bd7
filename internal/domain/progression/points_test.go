package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePoints_BaseDifficulty(t *testing.T) {
	// Difficulty 1 at target pace is the identity case.
	assert.Equal(t, 100, CalculatePoints(100, 1, 20, 20))

	// Difficulty 5 multiplies by 1.8.
	assert.Equal(t, 180, CalculatePoints(100, 5, 20, 20))

	// Difficulty 3 multiplies by 1.4.
	assert.Equal(t, 140, CalculatePoints(100, 3, 20, 20))
}

func TestCalculatePoints_DurationFactor(t *testing.T) {
	// Finishing far under the target clamps at 0.5.
	assert.Equal(t, 70, CalculatePoints(100, 3, 5, 20))

	// Grinding far over the target clamps at 1.5.
	assert.Equal(t, 210, CalculatePoints(100, 3, 60, 20))

	// Half the target time is exactly the lower clamp.
	assert.Equal(t, 70, CalculatePoints(100, 3, 10, 20))

	// 25% over target scales linearly.
	assert.Equal(t, 175, CalculatePoints(100, 3, 25, 20))
}

func TestCalculatePoints_ZeroTargetDuration(t *testing.T) {
	// No target means no duration adjustment.
	assert.Equal(t, 120, CalculatePoints(100, 2, 15, 0))
	assert.Equal(t, 120, CalculatePoints(100, 2, 0, 0))
}

func TestCalculatePoints_Rounding(t *testing.T) {
	// 50 × 1.2 × (13/20=0.65) = 39
	assert.Equal(t, 39, CalculatePoints(50, 2, 13, 20))

	// 25 × 1.8 × 1.0 = 45
	assert.Equal(t, 45, CalculatePoints(25, 5, 10, 10))
}
