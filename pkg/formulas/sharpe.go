package formulas

import "math"

// SharpeRatio calculates an annualized mean-over-volatility ratio from a
// series of periodic returns:
//
//	Sharpe = mean(returns) / std(returns) x sqrt(252)
//
// No risk-free rate is subtracted. Returns 0 when the input has fewer than
// two points or the return distribution is degenerate (zero standard
// deviation).
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	std := StdDev(returns)
	if std == 0 {
		return 0
	}

	return Mean(returns) / std * math.Sqrt(TradingDaysPerYear)
}
