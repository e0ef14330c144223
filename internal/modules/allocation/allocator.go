package allocation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/sizing"
	"github.com/aristath/helmsman/pkg/formulas"
)

// positionCountSaturation is the position count at which the count half of
// the diversification score saturates at 1.
const positionCountSaturation = 10.0

// Allocator spreads a capital budget across candidate instruments by
// repeatedly sizing each one against the remaining balance. It is a greedy,
// order-sensitive pass: candidates are taken in the order supplied, and an
// early large position can crowd out later ones. Callers who care should
// pre-sort candidates.
type Allocator struct {
	sizer *sizing.Sizer
	log   zerolog.Logger
}

// NewAllocator creates a new portfolio allocator
func NewAllocator(sizer *sizing.Sizer, log zerolog.Logger) *Allocator {
	return &Allocator{
		sizer: sizer,
		log:   log.With().Str("component", "portfolio_allocator").Logger(),
	}
}

// Allocate runs one greedy allocation round. Each candidate is sized against
// the balance left by its predecessors and accepted only while cumulative
// VaR stays within the risk ceiling; rejected candidates are skipped, not
// retried. A round that accepts nothing is still a valid result.
func (a *Allocator) Allocate(req Request) Result {
	result := Result{Valid: true}

	if !isFinite(req.AccountBalance) || req.AccountBalance <= 0 {
		a.log.Warn().Float64("balance", req.AccountBalance).Msg("Allocation rejected: non-positive balance")
		result.Valid = false
		result.Diagnostic = domain.Diagnose(domain.DiagInvalidInput, "account balance must be positive")
		return result
	}

	remaining := req.AccountBalance

	for _, cand := range req.Candidates {
		if remaining <= 0 {
			break
		}

		sized := a.sizer.Size(sizing.Request{
			Symbol:          cand.Symbol,
			AccountBalance:  remaining,
			InstrumentPrice: cand.Price,
			Confidence:      cand.Confidence,
			Volatility:      cand.Volatility,
			Correlation:     cand.Correlation,
			RiskTier:        cand.RiskTier,
		})
		if !sized.Valid || sized.Quantity == 0 {
			continue
		}

		if req.MaxRisk > 0 && result.TotalRisk+sized.RiskMetrics.DailyVaR > req.MaxRisk {
			a.log.Debug().
				Str("symbol", cand.Symbol).
				Float64("candidate_var", sized.RiskMetrics.DailyVaR).
				Float64("cumulative_risk", result.TotalRisk).
				Msg("Candidate skipped: risk ceiling reached")
			continue
		}

		expectedReturn := float64(sized.Quantity) * (cand.TargetPrice - cand.Price) * cand.Confidence

		result.Allocations = append(result.Allocations, Allocation{
			Symbol:         cand.Symbol,
			Quantity:       sized.Quantity,
			Amount:         sized.MonetaryValue,
			Ratio:          sized.MonetaryValue / req.AccountBalance,
			RiskAmount:     sized.RiskMetrics.DailyVaR,
			ExpectedReturn: expectedReturn,
		})

		remaining -= sized.MonetaryValue
		result.TotalAllocation += sized.MonetaryValue
		result.TotalRisk += sized.RiskMetrics.DailyVaR
		result.ExpectedReturn += expectedReturn
	}

	result.RemainingBalance = remaining
	result.DiversificationScore = a.DiversificationScore(result.Allocations)
	result.MetTarget = result.DiversificationScore >= req.DiversificationTarget
	result.MetReturnTarget = result.ExpectedReturn >= req.TargetReturn
	if result.TotalRisk > 0 {
		result.RiskReturnRatio = result.ExpectedReturn / result.TotalRisk
	}

	a.log.Debug().
		Int("accepted", len(result.Allocations)).
		Int("candidates", len(req.Candidates)).
		Float64("total_allocation", result.TotalAllocation).
		Float64("diversification_score", result.DiversificationScore).
		Msg("Allocation round complete")

	return result
}

// DiversificationScore blends position-count saturation with size evenness.
// Count saturates at ten positions; evenness is 1 minus the variance-to-mean
// ratio of position values, floored at 0. Both halves live in [0,1] and the
// score is their average.
func (a *Allocator) DiversificationScore(allocations []Allocation) float64 {
	if len(allocations) == 0 {
		return 0
	}

	countScore := math.Min(float64(len(allocations))/positionCountSaturation, 1)

	values := make([]float64, len(allocations))
	for i, alloc := range allocations {
		values[i] = alloc.Amount
	}

	evenness := 1.0
	if mean := formulas.Mean(values); mean > 0 {
		evenness = 1 - formulas.Variance(values)/mean
		evenness = math.Max(0, math.Min(1, evenness))
	}

	return (countScore + evenness) / 2
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
