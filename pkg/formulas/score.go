package formulas

// RiskScore blends four risk signals into a single score in [0, 100].
// Each term is individually capped at 100 before averaging:
//
//   - VaR term: varRatio (VaR as a fraction of exposure) x 100
//   - volatility term: volatility x 100
//   - drawdown term: drawdown x 200 (a 50% drawdown saturates the term)
//   - Sharpe term: inverted, (2 - sharpe) x 25, so a Sharpe of 2 contributes
//     0 risk and a Sharpe of -2 contributes the full 100
//
// This is an explicit heuristic for ranking and alerting, not a calibrated
// statistical measure.
func RiskScore(varRatio, volatility, drawdown, sharpe float64) float64 {
	varTerm := clampScore(varRatio * 100)
	volTerm := clampScore(volatility * 100)
	ddTerm := clampScore(drawdown * 200)
	sharpeTerm := clampScore((2 - sharpe) * 25)

	return clampScore((varTerm + volTerm + ddTerm + sharpeTerm) / 4)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
