package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKellyFraction(t *testing.T) {
	tests := []struct {
		name     string
		winRate  float64
		avgWin   float64
		avgLoss  float64
		expected float64
	}{
		{
			name:     "favorable edge",
			winRate:  0.6,
			avgWin:   0.10,
			avgLoss:  0.05,
			expected: 0.4, // raw fraction, before cap
		},
		{
			name:     "negative edge clamps to zero",
			winRate:  0.3,
			avgWin:   0.05,
			avgLoss:  0.10,
			expected: 0,
		},
		{
			name:     "zero avg win fails safe",
			winRate:  0.9,
			avgWin:   0,
			avgLoss:  0.05,
			expected: 0,
		},
		{
			name:     "negative avg win fails safe",
			winRate:  0.9,
			avgWin:   -0.1,
			avgLoss:  0.05,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := KellyFraction(tt.winRate, tt.avgWin, tt.avgLoss)
			if tt.expected > MaxKellyFraction {
				assert.Equal(t, MaxKellyFraction, f, "fraction must be capped")
			} else {
				assert.InDelta(t, tt.expected, f, 1e-9)
			}
		})
	}
}

func TestKellyFractionCap(t *testing.T) {
	// 90% win rate with symmetric outcomes suggests a raw fraction far above
	// the cap; the cap must win.
	f := KellyFraction(0.9, 0.10, 0.10)
	assert.Equal(t, MaxKellyFraction, f)
}

func TestKellyFractionNeverNegative(t *testing.T) {
	for _, winRate := range []float64{0, 0.1, 0.5, 0.9, 1.0} {
		f := KellyFraction(winRate, 0.05, 0.20)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, MaxKellyFraction)
	}
}
