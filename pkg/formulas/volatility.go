package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RealizedVolatility estimates annualized volatility from a price series
// using a rolling standard deviation of returns over the given window.
// The most recent window is used. Returns 0 when the series is shorter
// than window+1 prices.
func RealizedVolatility(prices []float64, window int) float64 {
	if window < 2 || len(prices) < window+1 {
		return 0
	}

	returns := CalculateReturns(prices)
	if len(returns) < window {
		return 0
	}

	// talib emits NaN for the warm-up region; the last element covers the
	// most recent window.
	stddevs := talib.StdDev(returns, window, 1.0)
	latest := stddevs[len(stddevs)-1]
	if math.IsNaN(latest) {
		return 0
	}

	return latest * math.Sqrt(TradingDaysPerYear)
}
