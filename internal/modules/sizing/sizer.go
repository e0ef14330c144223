package sizing

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/pkg/formulas"
)

// Sizer computes risk-adjusted position sizes. It is stateless and safe for
// concurrent use; identical requests always produce identical results.
type Sizer struct {
	cfg Config
	log zerolog.Logger
}

// NewSizer creates a new position sizer
func NewSizer(cfg Config, log zerolog.Logger) *Sizer {
	return &Sizer{
		cfg: cfg,
		log: log.With().Str("component", "position_sizer").Logger(),
	}
}

// Size runs the full sizing chain. Stages are applied in a fixed order, each
// taking the previous stage's output as its base:
//
//  1. base size from re-centered confidence, capped by the position budget
//  2. risk-tier multiplier
//  3. volatility adjustment
//  4. correlation adjustment
//  5. portfolio-correlation adjustment (optional)
//  6. max-loss budget (optional)
//  7. final clamp to [1, balance x MaxPositionPct / price], floored
//
// The chain never returns an error: invalid inputs at any stage are logged
// and the stage passes its input through unchanged (or yields zero at the
// base stage). A total failure is reported via Valid=false plus Diagnostic.
func (s *Sizer) Size(req Request) Result {
	result := Result{Symbol: req.Symbol}

	if !isFinite(req.AccountBalance) || req.AccountBalance <= 0 {
		s.log.Warn().
			Str("symbol", req.Symbol).
			Float64("balance", req.AccountBalance).
			Msg("Sizing rejected: non-positive account balance")
		result.Diagnostic = domain.Diagnose(domain.DiagInvalidInput, "account balance must be positive")
		return result
	}
	if !isFinite(req.InstrumentPrice) || req.InstrumentPrice <= 0 {
		s.log.Warn().
			Str("symbol", req.Symbol).
			Float64("price", req.InstrumentPrice).
			Msg("Sizing rejected: non-positive instrument price")
		result.Diagnostic = domain.Diagnose(domain.DiagInvalidInput, "instrument price must be positive")
		return result
	}

	result.Stages.Base = s.BaseSize(req.AccountBalance, req.InstrumentPrice, req.Confidence)
	result.Stages.RiskAdjusted = s.ApplyRiskTier(result.Stages.Base, req.RiskTier)
	result.Stages.VolatilityAdjusted = s.AdjustForVolatility(result.Stages.RiskAdjusted, req.Volatility)
	result.Stages.CorrelationAdjusted = s.AdjustForCorrelation(result.Stages.VolatilityAdjusted, req.Correlation)
	result.Stages.PortfolioAdjusted = s.AdjustForPortfolioCorrelation(result.Stages.CorrelationAdjusted, req.PortfolioCorrelation)
	result.Stages.MaxLossBounded = s.ApplyMaxLossBudget(result.Stages.PortfolioAdjusted, req.InstrumentPrice, req.MaxLossAmount)

	result.Quantity = s.FinalClamp(result.Stages.MaxLossBounded, req.AccountBalance, req.InstrumentPrice)
	result.MonetaryValue = float64(result.Quantity) * req.InstrumentPrice
	result.PctOfBalance = result.MonetaryValue / req.AccountBalance
	result.RiskMetrics = s.riskMetrics(result.MonetaryValue, req.Volatility)
	result.Valid = true

	// A max-loss budget too small to cover even one share is a real
	// constraint conflict worth surfacing, not an input error.
	if result.Quantity == 0 && result.Stages.PortfolioAdjusted >= 1 && result.Stages.MaxLossBounded < 1 {
		result.Diagnostic = domain.Diagnose(domain.DiagConstraintUnsatisfiable, "max loss budget below one share's risk")
	}

	// A sized position with no volatility input cannot carry risk metrics;
	// the quantity stands but callers should know the metrics are absent.
	if result.Quantity > 0 && req.Volatility <= 0 {
		result.Diagnostic = domain.Diagnose(domain.DiagDegenerateDistribution, "zero volatility, risk metrics unavailable")
	}

	s.log.Debug().
		Str("symbol", req.Symbol).
		Int("quantity", result.Quantity).
		Float64("base", result.Stages.Base).
		Float64("monetary_value", result.MonetaryValue).
		Msg("Position sized")

	return result
}

// BaseSize derives the unconstrained starting size from model confidence.
// Confidence is re-centered around 0.5 so that sub-coin-flip confidence
// yields nothing, then scaled by the configured base unit and capped by the
// per-position budget. Invalid confidence yields zero.
func (s *Sizer) BaseSize(balance, price, confidence float64) float64 {
	if !isFinite(confidence) || confidence < 0 || confidence > 1 {
		s.log.Warn().Float64("confidence", confidence).Msg("Base stage: confidence out of range")
		return 0
	}

	size := (confidence - 0.5) * s.cfg.ConfidenceMultiplier * s.cfg.BaseUnit
	if size < 0 {
		return 0
	}

	budget := balance * s.cfg.MaxPositionPct / price
	if size > budget {
		size = budget
	}
	return size
}

// ApplyRiskTier scales the size by the tier's fixed multiplier.
// Unknown tiers fall back to the 0.5 default multiplier.
func (s *Sizer) ApplyRiskTier(size float64, tier domain.RiskTier) float64 {
	if !tier.IsValid() {
		s.log.Warn().Str("risk_tier", string(tier)).Msg("Risk tier stage: unknown tier, using default multiplier")
	}
	return size * tier.Multiplier()
}

// AdjustForVolatility shrinks the size proportionally once volatility
// exceeds the configured ceiling, and grows it mildly below the ceiling.
func (s *Sizer) AdjustForVolatility(size, volatility float64) float64 {
	if !isFinite(volatility) || volatility < 0 {
		s.log.Warn().Float64("volatility", volatility).Msg("Volatility stage: invalid volatility, passing size through")
		return size
	}

	if volatility > s.cfg.VolatilityCeiling {
		return size * s.cfg.VolatilityCeiling / volatility
	}
	return size * (1 + (s.cfg.VolatilityCeiling-volatility)*0.5)
}

// AdjustForCorrelation shrinks the size when correlation to the reference
// basket exceeds the configured ceiling; uncorrelated candidates pass through.
func (s *Sizer) AdjustForCorrelation(size, correlation float64) float64 {
	if !isFinite(correlation) || correlation < -1 || correlation > 1 {
		s.log.Warn().Float64("correlation", correlation).Msg("Correlation stage: invalid correlation, passing size through")
		return size
	}

	if correlation > s.cfg.CorrelationCeiling {
		return size * (1 - (correlation - s.cfg.CorrelationCeiling))
	}
	return size
}

// Portfolio-correlation shrink factors. Tiered rather than proportional:
// near-duplicate exposure is cut hard, moderate overlap is cut gently.
const (
	strongPortfolioCorrelation   = 0.8
	moderatePortfolioCorrelation = 0.6
	strongCorrelationShrink      = 0.3
	moderateCorrelationShrink    = 0.6
)

// AdjustForPortfolioCorrelation applies the tiered shrink for correlation
// against the caller's existing portfolio. A nil correlation skips the stage.
func (s *Sizer) AdjustForPortfolioCorrelation(size float64, portfolioCorrelation *float64) float64 {
	if portfolioCorrelation == nil {
		return size
	}

	pc := *portfolioCorrelation
	if !isFinite(pc) || pc < -1 || pc > 1 {
		s.log.Warn().Float64("portfolio_correlation", pc).Msg("Portfolio correlation stage: invalid value, passing size through")
		return size
	}

	switch {
	case pc >= strongPortfolioCorrelation:
		return size * strongCorrelationShrink
	case pc >= moderatePortfolioCorrelation:
		return size * moderateCorrelationShrink
	default:
		return size
	}
}

// ApplyMaxLossBudget bounds the size so the expected adverse move cannot
// lose more than the caller's budget:
//
//	size x price x ExpectedAdverseMove <= maxLoss
//
// A nil budget skips the stage.
func (s *Sizer) ApplyMaxLossBudget(size, price float64, maxLoss *float64) float64 {
	if maxLoss == nil {
		return size
	}

	budget := *maxLoss
	if !isFinite(budget) || budget <= 0 {
		s.log.Warn().Float64("max_loss_amount", budget).Msg("Max loss stage: invalid budget, passing size through")
		return size
	}

	bound := budget / (price * s.cfg.ExpectedAdverseMove)
	if size > bound {
		return bound
	}
	return size
}

// FinalClamp bounds the size to the per-position budget and floors it to a
// whole number of shares. Sizes below one share become zero.
func (s *Sizer) FinalClamp(size, balance, price float64) int {
	if !isFinite(size) || size < 1 {
		return 0
	}

	budget := balance * s.cfg.MaxPositionPct / price
	if size > budget {
		size = budget
	}
	return int(math.Floor(size))
}

// riskMetrics builds the per-position risk snapshot for a sized position
func (s *Sizer) riskMetrics(monetaryValue, volatility float64) RiskMetrics {
	if monetaryValue <= 0 || volatility <= 0 {
		return RiskMetrics{}
	}

	dailyVaR := formulas.ValueAtRisk(monetaryValue, volatility, 0.95)
	return RiskMetrics{
		DailyVaR:        dailyVaR,
		MaxLossEstimate: monetaryValue * volatility * 3,
		RiskScore:       formulas.RiskScore(dailyVaR/monetaryValue, volatility, 0, 0),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
