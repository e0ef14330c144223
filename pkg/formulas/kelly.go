package formulas

// MaxKellyFraction is the hard cap applied to the raw Kelly fraction.
// Even when the formula suggests risking more, no single trade may commit
// more than a quarter of capital.
const MaxKellyFraction = 0.25

// KellyFraction calculates the fraction of capital to risk on a trade given
// an estimated win probability and the average win/loss sizes.
//
// Formula:
//
//	f = (winRate x avgWin - (1 - winRate) x avgLoss) / avgWin
//
// The result is clamped to [0, MaxKellyFraction]. A non-positive avgWin makes
// the formula meaningless, so the function fails safe and returns 0.
//
// Note: avgWin alone is the denominator rather than the textbook win/loss
// ratio. This matches the behavior the rest of the system is calibrated
// against and is kept deliberately.
func KellyFraction(winRate, avgWin, avgLoss float64) float64 {
	if avgWin <= 0 {
		return 0
	}

	f := (winRate*avgWin - (1-winRate)*avgLoss) / avgWin

	if f < 0 {
		return 0
	}
	if f > MaxKellyFraction {
		return MaxKellyFraction
	}
	return f
}
