package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharpeRatio(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, -0.01, 0.015}

	mean := Mean(returns)
	std := StdDev(returns)
	expected := mean / std * math.Sqrt(252)

	assert.InDelta(t, expected, SharpeRatio(returns), 1e-9)
}

func TestSharpeRatioDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, SharpeRatio(nil))
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01}))
	// Zero standard deviation.
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01, 0.01, 0.01}))
}

func TestSharpeRatioSign(t *testing.T) {
	up := SharpeRatio([]float64{0.01, 0.02, 0.005, 0.015})
	down := SharpeRatio([]float64{-0.01, -0.02, -0.005, -0.015})

	assert.Positive(t, up)
	assert.Negative(t, down)
}
