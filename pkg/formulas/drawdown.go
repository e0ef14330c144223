package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline of an equity
// curve using a running maximum:
//
//	drawdown(t) = (peak(<=t) - equity(t)) / peak(<=t)
//
// The second return value is the duration of the longest contiguous run of
// periods spent below the running peak. Empty and singleton curves return
// (0, 0).
func MaxDrawdown(equityCurve []float64) (float64, int) {
	if len(equityCurve) < 2 {
		return 0, 0
	}

	maxDD := 0.0
	peak := equityCurve[0]
	maxDuration := 0
	currentRun := 0

	for _, equity := range equityCurve {
		if equity > peak {
			peak = equity
		}

		if peak > 0 && equity < peak {
			dd := (peak - equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
			currentRun++
			if currentRun > maxDuration {
				maxDuration = currentRun
			}
		} else {
			currentRun = 0
		}
	}

	return maxDD, maxDuration
}
