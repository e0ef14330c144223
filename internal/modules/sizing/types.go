// Package sizing implements risk-adjusted position sizing: a chain of
// multiplicative and clamping adjustments that turns account balance, price,
// model confidence, volatility and correlation into a bounded share quantity.
package sizing

import "github.com/aristath/helmsman/internal/domain"

// Request holds the inputs for a single sizing calculation
type Request struct {
	Symbol               string          `json:"symbol,omitempty"`
	AccountBalance       float64         `json:"account_balance"`
	InstrumentPrice      float64         `json:"instrument_price"`
	Confidence           float64         `json:"confidence"`  // 0..1
	Volatility           float64         `json:"volatility"`  // daily fractional, >= 0
	Correlation          float64         `json:"correlation"` // -1..1, to the reference basket
	RiskTier             domain.RiskTier `json:"risk_tier"`
	MaxLossAmount        *float64        `json:"max_loss_amount,omitempty"`
	PortfolioCorrelation *float64        `json:"portfolio_correlation,omitempty"`
}

// Stages records the intermediate quantity after each adjustment stage.
// Stage order is part of the sizing contract: each stage takes the previous
// stage's output as its base.
type Stages struct {
	Base                float64 `json:"base"`
	RiskAdjusted        float64 `json:"risk_adjusted"`
	VolatilityAdjusted  float64 `json:"volatility_adjusted"`
	CorrelationAdjusted float64 `json:"correlation_adjusted"`
	PortfolioAdjusted   float64 `json:"portfolio_adjusted"`
	MaxLossBounded      float64 `json:"max_loss_bounded"`
}

// RiskMetrics is the per-position risk snapshot attached to a sizing result
type RiskMetrics struct {
	DailyVaR        float64 `json:"daily_var"`         // 95% parametric VaR of the sized position
	MaxLossEstimate float64 `json:"max_loss_estimate"` // 3-sigma tail estimate
	RiskScore       float64 `json:"risk_score"`        // heuristic blend, 0..100
}

// Result is the outcome of a sizing calculation. Quantity is always >= 0;
// a zero quantity with Valid=false and a non-empty Diagnostic marks a failed
// computation rather than a genuinely zero-sized recommendation.
type Result struct {
	Symbol        string      `json:"symbol,omitempty"`
	Quantity      int         `json:"quantity"`
	Stages        Stages      `json:"stages"`
	MonetaryValue float64     `json:"monetary_value"`
	PctOfBalance  float64     `json:"pct_of_balance"`
	RiskMetrics   RiskMetrics `json:"risk_metrics"`
	Valid         bool        `json:"valid"`
	Diagnostic    string      `json:"diagnostic,omitempty"`
}

// Config holds the tunable parameters of the sizing chain
type Config struct {
	BaseUnit             float64 // shares per unit of re-centered confidence
	ConfidenceMultiplier float64 // scaling applied to (confidence - 0.5)
	MaxPositionPct       float64 // hard cap as a fraction of account balance
	VolatilityCeiling    float64 // daily fractional volatility above which sizes shrink
	CorrelationCeiling   float64 // correlation above which sizes shrink
	ExpectedAdverseMove  float64 // assumed adverse move for the max-loss budget
}

// DefaultConfig returns the sizing parameters used in production
func DefaultConfig() Config {
	return Config{
		BaseUnit:             100,
		ConfidenceMultiplier: 2.0,
		MaxPositionPct:       0.10,
		VolatilityCeiling:    0.05,
		CorrelationCeiling:   0.7,
		ExpectedAdverseMove:  0.05,
	}
}
