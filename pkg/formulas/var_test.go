package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAtRisk(t *testing.T) {
	// 100k position at 2% daily volatility, 95% confidence.
	v := ValueAtRisk(100000, 0.02, 0.95)
	assert.InDelta(t, 100000*0.02*1.96, v, 1e-9)
}

func TestValueAtRiskConfidenceLevels(t *testing.T) {
	v95 := ValueAtRisk(50000, 0.03, 0.95)
	v99 := ValueAtRisk(50000, 0.03, 0.99)
	v90 := ValueAtRisk(50000, 0.03, 0.90)

	assert.Greater(t, v99, v95)
	assert.Greater(t, v95, v90)
}

func TestValueAtRiskFallsBackTo95(t *testing.T) {
	// Unsupported confidence levels use the 95% z-score.
	assert.Equal(t, ValueAtRisk(10000, 0.02, 0.95), ValueAtRisk(10000, 0.02, 0))
	assert.Equal(t, ValueAtRisk(10000, 0.02, 0.95), ValueAtRisk(10000, 0.02, 0.5))
}

func TestValueAtRiskDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, ValueAtRisk(0, 0.02, 0.95))
	assert.Equal(t, 0.0, ValueAtRisk(-100, 0.02, 0.95))
	assert.Equal(t, 0.0, ValueAtRisk(100000, 0, 0.95))
	assert.Equal(t, 0.0, ValueAtRisk(100000, -0.5, 0.95))
}
