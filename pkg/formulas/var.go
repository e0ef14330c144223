package formulas

// z-scores for the supported VaR confidence levels. The 95% level (z=1.96)
// is what the engines use throughout; it is a parametric approximation,
// not an exact quantile of the return distribution.
const (
	zScore90 = 1.645
	zScore95 = 1.96
	zScore99 = 2.326
)

// ValueAtRisk estimates the potential loss of a position at the given
// confidence level over one period.
//
// Formula:
//
//	VaR = positionValue x volatility x z
//
// Unsupported or zero confidence levels fall back to 95% (z=1.96).
// Non-positive position values or volatilities yield 0.
func ValueAtRisk(positionValue, volatility, confidence float64) float64 {
	if positionValue <= 0 || volatility <= 0 {
		return 0
	}

	z := zScore95
	switch {
	case confidence >= 0.99:
		z = zScore99
	case confidence >= 0.95:
		z = zScore95
	case confidence >= 0.90:
		z = zScore90
	}

	return positionValue * volatility * z
}
