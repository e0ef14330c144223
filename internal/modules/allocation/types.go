package allocation

import "github.com/aristath/helmsman/internal/domain"

// Candidate is one instrument competing for a share of the capital budget
type Candidate struct {
	Symbol      string          `json:"symbol"`
	Price       float64         `json:"price"`
	TargetPrice float64         `json:"target_price"`
	Confidence  float64         `json:"confidence"`
	Volatility  float64         `json:"volatility"`
	Correlation float64         `json:"correlation"`
	RiskTier    domain.RiskTier `json:"risk_tier"`
}

// Request describes an allocation round over a set of candidates
type Request struct {
	AccountBalance        float64     `json:"account_balance"`
	Candidates            []Candidate `json:"candidates"`
	TargetReturn          float64     `json:"target_return"`
	MaxRisk               float64     `json:"max_risk"` // cumulative VaR ceiling, monetary
	DiversificationTarget float64     `json:"diversification_target"`
}

// Allocation is the accepted slice for one candidate
type Allocation struct {
	Symbol         string  `json:"symbol"`
	Quantity       int     `json:"quantity"`
	Amount         float64 `json:"amount"`
	Ratio          float64 `json:"ratio"` // share of the starting balance
	RiskAmount     float64 `json:"risk_amount"`
	ExpectedReturn float64 `json:"expected_return"`
}

// Result is the outcome of one allocation round
type Result struct {
	Allocations          []Allocation `json:"allocations"`
	TotalAllocation      float64      `json:"total_allocation"`
	RemainingBalance     float64      `json:"remaining_balance"`
	TotalRisk            float64      `json:"total_risk"`
	ExpectedReturn       float64      `json:"expected_return"`
	DiversificationScore float64      `json:"diversification_score"` // 0..1
	RiskReturnRatio      float64      `json:"risk_return_ratio"`
	MetTarget            bool         `json:"met_target"`        // diversification target reached
	MetReturnTarget      bool         `json:"met_return_target"` // expected return covers the requested target
	Valid                bool         `json:"valid"`
	Diagnostic           string       `json:"diagnostic,omitempty"`
}
