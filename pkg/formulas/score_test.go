package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskScoreBounds(t *testing.T) {
	tests := []struct {
		name                            string
		varRatio, vol, drawdown, sharpe float64
	}{
		{"all zero", 0, 0, 0, 0},
		{"calm portfolio", 0.01, 0.1, 0.05, 1.5},
		{"stressed portfolio", 0.5, 0.8, 0.6, -1.0},
		{"extreme inputs", 10, 10, 10, -50},
		{"negative inputs", -1, -1, -1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := RiskScore(tt.varRatio, tt.vol, tt.drawdown, tt.sharpe)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		})
	}
}

func TestRiskScoreOrdering(t *testing.T) {
	calm := RiskScore(0.01, 0.10, 0.05, 1.5)
	stressed := RiskScore(0.30, 0.60, 0.40, -0.5)
	assert.Greater(t, stressed, calm)
}

func TestRiskScoreSharpeInversion(t *testing.T) {
	// A better Sharpe must not increase the score when everything else is fixed.
	lowSharpe := RiskScore(0.1, 0.2, 0.1, -1.0)
	highSharpe := RiskScore(0.1, 0.2, 0.1, 2.0)
	assert.Greater(t, lowSharpe, highSharpe)
}

func TestRiskScoreTermCapping(t *testing.T) {
	// A single extreme term is capped at 100 before averaging, so it cannot
	// push the composite past its share of the blend.
	score := RiskScore(1000, 0, 0, 2.0)
	assert.InDelta(t, 25.0, score, 1e-9)
}
