package domain

// Quote is a point-in-time market data sample for a symbol
type Quote struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	Volume     float64 `json:"volume"`
}

// Prediction is a model-produced outlook for a symbol
type Prediction struct {
	Symbol      string  `json:"symbol"`
	Confidence  float64 `json:"confidence"` // estimated win probability/strength, 0..1
	TargetPrice float64 `json:"target_price"`
}

// LedgerPosition is an existing holding as reported by the portfolio ledger
type LedgerPosition struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// MarketDataProvider supplies quotes for sizing requests that omit price or
// volatility. Retrieval and authentication against the upstream source live
// behind this interface and outside this module.
type MarketDataProvider interface {
	GetQuote(symbol string) (*Quote, error)
}

// PredictionProvider supplies model confidence and target prices.
// The predictive ensemble itself lives outside this module.
type PredictionProvider interface {
	GetPrediction(symbol string) (*Prediction, error)
}

// PortfolioLedger reports existing holdings so order sizing can dampen
// additions to already-large exposures.
type PortfolioLedger interface {
	// ExposureFor returns the current monetary exposure for a symbol.
	// Zero (not an error) when the symbol is not held.
	ExposureFor(symbol string) (float64, error)

	// OpenPositions returns all currently held positions.
	OpenPositions() ([]LedgerPosition, error)
}
