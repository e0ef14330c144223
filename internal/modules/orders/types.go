package orders

import "github.com/aristath/helmsman/internal/domain"

// Request carries everything needed to turn a trade intent into an order
// with full cost accounting.
type Request struct {
	Symbol          string                 `json:"symbol"`
	AccountBalance  float64                `json:"account_balance"`
	Price           float64                `json:"price"`
	TargetPrice     float64                `json:"target_price"`
	Confidence      float64                `json:"confidence"` // 0..1
	Volatility      float64                `json:"volatility"` // daily fractional, >= 0
	Correlation     float64                `json:"correlation"`
	RiskTier        domain.RiskTier        `json:"risk_tier"`
	MarketCondition domain.MarketCondition `json:"market_condition"`
}

// Economics is the fully-costed order produced by the Calculator.
// Quantity is always a multiple of the configured trade unit, or zero.
type Economics struct {
	Symbol         string                `json:"symbol"`
	Quantity       int                   `json:"quantity"`
	GrossAmount    float64               `json:"gross_amount"`
	Commission     float64               `json:"commission"`
	Slippage       float64               `json:"slippage"`
	NetAmount      float64               `json:"net_amount"`
	RiskAmount     float64               `json:"risk_amount"`      // 95% parametric VaR
	ExpectedReturn float64               `json:"expected_return"`  // confidence-weighted move to target
	MaxLoss        float64               `json:"max_loss"`         // 3-sigma tail estimate
	ConfidenceTier domain.ConfidenceTier `json:"confidence_tier"`
	Valid          bool                  `json:"valid"`
	Diagnostic     string                `json:"diagnostic,omitempty"`
}

// Config holds the Calculator's tunables. The average-win/average-loss
// assumptions seed the Kelly fraction; they are configured expectations,
// not measured statistics.
type Config struct {
	AvgWin         float64 // assumed average winning return, fractional
	AvgLoss        float64 // assumed average losing return, fractional
	MaxPositionPct float64 // hard cap as a fraction of account balance

	CorrelationCeiling float64 // correlation above this shrinks the quantity

	TradeUnit      int     // quantities round down to a multiple of this
	MinTradeAmount float64 // gross amounts below this reject to zero

	CommissionRate float64
	SlippageRate   float64

	ExposureCap float64 // per-symbol monetary exposure at which dampening reaches zero

	// ConditionMultipliers scales the base quantity by market regime.
	// Unknown conditions use 1.0.
	ConditionMultipliers map[domain.MarketCondition]float64
}

// DefaultConfig returns the calculator defaults
func DefaultConfig() Config {
	return Config{
		AvgWin:             0.10,
		AvgLoss:            0.05,
		MaxPositionPct:     0.10,
		CorrelationCeiling: 0.7,
		TradeUnit:          1,
		MinTradeAmount:     100,
		CommissionRate:     0.001,
		SlippageRate:       0.0005,
		ExposureCap:        50_000,
		ConditionMultipliers: map[domain.MarketCondition]float64{
			domain.MarketBull:           1.1,
			domain.MarketBear:           0.7,
			domain.MarketHighVolatility: 0.5,
			domain.MarketCrisis:         0.2,
		},
	}
}
