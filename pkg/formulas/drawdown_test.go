package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name        string
		curve       []float64
		expectedDD  float64
		expectedDur int
	}{
		{
			name:        "empty curve",
			curve:       []float64{},
			expectedDD:  0,
			expectedDur: 0,
		},
		{
			name:        "singleton curve",
			curve:       []float64{100000},
			expectedDD:  0,
			expectedDur: 0,
		},
		{
			name:        "monotonically rising",
			curve:       []float64{100, 110, 120, 130},
			expectedDD:  0,
			expectedDur: 0,
		},
		{
			name:        "single trough",
			curve:       []float64{100, 80, 100},
			expectedDD:  0.2,
			expectedDur: 1,
		},
		{
			name:        "reference curve",
			curve:       []float64{100000, 101000, 99000, 102000, 100000, 97000},
			expectedDD:  (102000.0 - 97000.0) / 102000.0,
			expectedDur: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dd, dur := MaxDrawdown(tt.curve)
			assert.InDelta(t, tt.expectedDD, dd, 1e-9)
			assert.Equal(t, tt.expectedDur, dur)
		})
	}
}

func TestMaxDrawdownNeverNegative(t *testing.T) {
	curves := [][]float64{
		{50, 60, 70},
		{70, 60, 50},
		{100, 100, 100},
		{0, 0, 0},
	}
	for _, c := range curves {
		dd, dur := MaxDrawdown(c)
		assert.GreaterOrEqual(t, dd, 0.0)
		assert.GreaterOrEqual(t, dur, 0)
	}
}
