// Package domain provides core domain models and types.
package domain

// Direction represents the side of a position
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// IsValid reports whether the direction is a known value
func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// RiskTier is a coarse, caller-supplied qualitative risk classification
// used as a direct sizing multiplier.
type RiskTier string

const (
	RiskTierLow      RiskTier = "LOW"
	RiskTierMedium   RiskTier = "MEDIUM"
	RiskTierHigh     RiskTier = "HIGH"
	RiskTierCritical RiskTier = "CRITICAL"
)

// Multiplier returns the sizing multiplier for the tier. Unknown tiers get
// a conservative middle-ground multiplier rather than an error.
func (t RiskTier) Multiplier() float64 {
	switch t {
	case RiskTierLow:
		return 1.0
	case RiskTierMedium:
		return 0.7
	case RiskTierHigh:
		return 0.3
	case RiskTierCritical:
		return 0.1
	default:
		return 0.5
	}
}

// IsValid reports whether the tier is a known value
func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierLow, RiskTierMedium, RiskTierHigh, RiskTierCritical:
		return true
	}
	return false
}

// MarketCondition classifies the current market regime for order sizing
type MarketCondition string

const (
	MarketBull           MarketCondition = "BULL"
	MarketBear           MarketCondition = "BEAR"
	MarketHighVolatility MarketCondition = "HIGH_VOLATILITY"
	MarketCrisis         MarketCondition = "CRISIS"
)

// PositionStatus represents the lifecycle state of a position
type PositionStatus string

const (
	PositionActive PositionStatus = "ACTIVE"
	PositionClosed PositionStatus = "CLOSED"
)

// CloseReason records why a position transitioned to CLOSED
type CloseReason string

const (
	CloseReasonStopLoss   CloseReason = "STOP_LOSS"
	CloseReasonTakeProfit CloseReason = "TAKE_PROFIT"
)

// ConfidenceTier buckets a model confidence into a coarse label
type ConfidenceTier string

const (
	ConfidenceVeryLow  ConfidenceTier = "VERY_LOW"
	ConfidenceLow      ConfidenceTier = "LOW"
	ConfidenceMedium   ConfidenceTier = "MEDIUM"
	ConfidenceHigh     ConfidenceTier = "HIGH"
	ConfidenceVeryHigh ConfidenceTier = "VERY_HIGH"
)

// ConfidenceTierFor buckets a confidence value in [0,1] into a tier.
// Out-of-range values land in the outermost buckets.
func ConfidenceTierFor(confidence float64) ConfidenceTier {
	switch {
	case confidence < 0.2:
		return ConfidenceVeryLow
	case confidence < 0.4:
		return ConfidenceLow
	case confidence < 0.6:
		return ConfidenceMedium
	case confidence < 0.8:
		return ConfidenceHigh
	default:
		return ConfidenceVeryHigh
	}
}
