package risk

import (
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestTracker(window int) *VolatilityTracker {
	return NewVolatilityTracker(window, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestVolatilityNeedsFullWindow(t *testing.T) {
	tr := newTestTracker(5)

	for _, p := range []float64{100, 101, 102} {
		tr.Observe("AAPL", p)
	}
	assert.Zero(t, tr.Volatility("AAPL"))

	for _, p := range []float64{101, 103, 102} {
		tr.Observe("AAPL", p)
	}
	assert.Greater(t, tr.Volatility("AAPL"), 0.0)
}

func TestVolatilityFlatSeriesIsZero(t *testing.T) {
	tr := newTestTracker(5)

	for i := 0; i < 10; i++ {
		tr.Observe("FLAT", 100)
	}
	assert.Zero(t, tr.Volatility("FLAT"))
}

func TestObserveDropsBadTicks(t *testing.T) {
	tr := newTestTracker(5)

	tr.Observe("AAPL", 0)
	tr.Observe("AAPL", -5)
	tr.Observe("", 100)

	assert.Zero(t, tr.SampleCount("AAPL"))
}

func TestObserveCapsHistory(t *testing.T) {
	tr := newTestTracker(5)

	for i := 0; i < 100; i++ {
		tr.Observe("AAPL", 100+math.Sin(float64(i)))
	}
	assert.Equal(t, 15, tr.SampleCount("AAPL"))
}

func TestTrackerConcurrentUse(t *testing.T) {
	tr := newTestTracker(10)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				tr.Observe("AAPL", 100+float64((seed+i)%7))
				_ = tr.Volatility("AAPL")
			}
		}(g)
	}
	wg.Wait()

	assert.Greater(t, tr.Volatility("AAPL"), 0.0)
}
