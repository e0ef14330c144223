package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskTierMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, RiskTierLow.Multiplier())
	assert.Equal(t, 0.7, RiskTierMedium.Multiplier())
	assert.Equal(t, 0.3, RiskTierHigh.Multiplier())
	assert.Equal(t, 0.1, RiskTierCritical.Multiplier())

	// Unknown tiers fall back to the 0.5 middle multiplier.
	assert.Equal(t, 0.5, RiskTier("EXTREME").Multiplier())
	assert.Equal(t, 0.5, RiskTier("").Multiplier())
}

func TestRiskTierIsValid(t *testing.T) {
	assert.True(t, RiskTierLow.IsValid())
	assert.True(t, RiskTierCritical.IsValid())
	assert.False(t, RiskTier("unknown").IsValid())
}

func TestDirectionIsValid(t *testing.T) {
	assert.True(t, DirectionBuy.IsValid())
	assert.True(t, DirectionSell.IsValid())
	assert.False(t, Direction("HOLD").IsValid())
}

func TestConfidenceTierFor(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   ConfidenceTier
	}{
		{0.0, ConfidenceVeryLow},
		{0.19, ConfidenceVeryLow},
		{0.2, ConfidenceLow},
		{0.45, ConfidenceMedium},
		{0.65, ConfidenceHigh},
		{0.8, ConfidenceVeryHigh},
		{1.0, ConfidenceVeryHigh},
		{-0.5, ConfidenceVeryLow},
		{1.5, ConfidenceVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConfidenceTierFor(tt.confidence), "confidence %v", tt.confidence)
	}
}

func TestDiagnose(t *testing.T) {
	assert.Equal(t, "invalid_input: price must be positive", Diagnose(DiagInvalidInput, "price must be positive"))
	assert.Equal(t, "invalid_input", Diagnose(DiagInvalidInput, ""))
}
