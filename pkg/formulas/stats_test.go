package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStdDev(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, Mean(data), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), StdDev(data), 1e-9)
	assert.InDelta(t, 2.5, Variance(data), 1e-9)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev([]float64{1}))
	assert.Equal(t, 0.0, Variance(nil))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	assert.InDelta(t, 1.0, Correlation(x, y), 1e-9)

	inverse := []float64{8, 6, 4, 2}
	assert.InDelta(t, -1.0, Correlation(x, inverse), 1e-9)

	// Length mismatch and short inputs degrade to zero.
	assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
	assert.Equal(t, 0.0, Correlation([]float64{1}, []float64{2}))
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestCalculateReturnsGuardsZeroPrices(t *testing.T) {
	returns := CalculateReturns([]float64{0, 100, 110})
	assert.Len(t, returns, 2)
	assert.Equal(t, 0.0, returns[0]) // no Inf from a zero base
	assert.InDelta(t, 0.10, returns[1], 1e-9)

	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Empty(t, CalculateReturns(nil))
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02, -0.02}
	expected := StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, expected, AnnualizedVolatility(returns), 1e-9)

	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01}))
}

func TestRealizedVolatility(t *testing.T) {
	// Alternating +1%/-1% moves have a stable rolling standard deviation.
	prices := make([]float64, 40)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 0 {
			prices[i] = prices[i-1] * 0.99
		} else {
			prices[i] = prices[i-1] * 1.01
		}
	}

	vol := RealizedVolatility(prices, 20)
	assert.Greater(t, vol, 0.0)
	assert.Less(t, vol, 1.0)
}

func TestRealizedVolatilityShortSeries(t *testing.T) {
	assert.Equal(t, 0.0, RealizedVolatility([]float64{100, 101}, 20))
	assert.Equal(t, 0.0, RealizedVolatility(nil, 20))
	assert.Equal(t, 0.0, RealizedVolatility([]float64{100, 101, 102}, 1))
}
