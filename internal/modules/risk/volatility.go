package risk

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/pkg/formulas"
)

// VolatilityTracker keeps a rolling price window per symbol and derives
// annualized realized volatility from it. It is safe for concurrent use;
// the price feed writes while sizing reads.
type VolatilityTracker struct {
	mu      sync.RWMutex
	prices  map[string][]float64
	window  int
	maxKeep int
	log     zerolog.Logger
}

// NewVolatilityTracker creates a tracker computing volatility over the given
// lookback window (in observations)
func NewVolatilityTracker(window int, log zerolog.Logger) *VolatilityTracker {
	if window < 2 {
		window = 20
	}
	return &VolatilityTracker{
		prices:  make(map[string][]float64),
		window:  window,
		maxKeep: window * 3,
		log:     log.With().Str("component", "volatility_tracker").Logger(),
	}
}

// Observe records a price sample for a symbol. Non-positive prices are
// dropped so a bad tick cannot poison the return series.
func (t *VolatilityTracker) Observe(symbol string, price float64) {
	if symbol == "" || price <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	series := append(t.prices[symbol], price)
	if len(series) > t.maxKeep {
		series = series[len(series)-t.maxKeep:]
	}
	t.prices[symbol] = series
}

// Volatility returns the symbol's annualized realized volatility, or 0 when
// fewer samples than the window have been observed.
func (t *VolatilityTracker) Volatility(symbol string) float64 {
	t.mu.RLock()
	series := t.prices[symbol]
	t.mu.RUnlock()

	if len(series) <= t.window {
		return 0
	}
	return formulas.RealizedVolatility(series, t.window)
}

// SampleCount returns how many prices have been observed for a symbol
func (t *VolatilityTracker) SampleCount(symbol string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.prices[symbol])
}
