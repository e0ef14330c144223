package orders

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/pkg/formulas"
)

// Calculator refines a trade intent into a fully-costed order. Its base
// quantity is Kelly-seeded, deliberately distinct from the position sizer's
// confidence-centered base: the two sizing philosophies coexist and are
// meant to produce comparable but not identical results.
type Calculator struct {
	cfg    Config
	ledger domain.PortfolioLedger
	log    zerolog.Logger
}

// NewCalculator creates an order quantity calculator. The ledger may be nil,
// in which case existing-position dampening is skipped.
func NewCalculator(cfg Config, ledger domain.PortfolioLedger, log zerolog.Logger) *Calculator {
	return &Calculator{
		cfg:    cfg,
		ledger: ledger,
		log:    log.With().Str("component", "quantity_calculator").Logger(),
	}
}

// Calculate produces the order economics for a trade intent. Pipeline:
//
//  1. Kelly-seeded base quantity from confidence and the configured
//     average-win/loss assumptions
//  2. risk-tier multiplier
//  3. volatility shrink above the base quantity's implied tolerance
//  4. correlation shrink above the configured ceiling
//  5. market-condition multiplier
//  6. existing-position dampening toward the per-symbol exposure cap
//  7. trade-unit rounding down, minimum-trade-amount rejection
//  8. full cost accounting plus risk/return estimates
//
// Invalid inputs never raise; they yield a zero-quantity result whose
// Diagnostic names the failing class.
func (c *Calculator) Calculate(req Request) Economics {
	econ := Economics{
		Symbol:         req.Symbol,
		ConfidenceTier: domain.ConfidenceTierFor(req.Confidence),
	}

	if !isFinite(req.AccountBalance) || req.AccountBalance <= 0 {
		c.log.Warn().
			Str("symbol", req.Symbol).
			Float64("balance", req.AccountBalance).
			Msg("Order rejected: non-positive account balance")
		econ.Diagnostic = domain.Diagnose(domain.DiagInvalidInput, "account balance must be positive")
		return econ
	}
	if !isFinite(req.Price) || req.Price <= 0 {
		c.log.Warn().
			Str("symbol", req.Symbol).
			Float64("price", req.Price).
			Msg("Order rejected: non-positive price")
		econ.Diagnostic = domain.Diagnose(domain.DiagInvalidInput, "price must be positive")
		return econ
	}

	size := c.KellyBaseQuantity(req.AccountBalance, req.Price, req.Confidence)
	size *= req.RiskTier.Multiplier()
	size = c.applyVolatility(size, req.Volatility)
	size = c.applyCorrelation(size, req.Correlation)
	size *= c.ConditionMultiplier(req.MarketCondition)
	size = c.dampenForExistingExposure(req.Symbol, req.Price, size)

	// The position budget binds after every multiplier, so a bull-market
	// boost can never push past the per-position cap.
	if budget := req.AccountBalance * c.cfg.MaxPositionPct / req.Price; size > budget {
		size = budget
	}

	qty := c.RoundToTradeUnit(size)
	if qty > 0 && float64(qty)*req.Price < c.cfg.MinTradeAmount {
		c.log.Debug().
			Str("symbol", req.Symbol).
			Int("quantity", qty).
			Float64("gross", float64(qty)*req.Price).
			Msg("Order below minimum trade amount, rejecting")
		qty = 0
	}

	econ.Quantity = qty
	econ.Valid = true
	if qty == 0 {
		return econ
	}

	gross := float64(qty) * req.Price
	econ.GrossAmount = gross
	econ.Commission = gross * c.cfg.CommissionRate
	econ.Slippage = gross * c.cfg.SlippageRate
	econ.NetAmount = gross + econ.Commission + econ.Slippage
	econ.RiskAmount = formulas.ValueAtRisk(gross, req.Volatility, 0.95)
	econ.ExpectedReturn = float64(qty) * (req.TargetPrice - req.Price) * req.Confidence
	// 3-sigma tail estimate, wider than the 1.96-sigma VaR on purpose.
	econ.MaxLoss = gross * req.Volatility * 3

	c.log.Debug().
		Str("symbol", req.Symbol).
		Int("quantity", qty).
		Float64("net_amount", econ.NetAmount).
		Str("confidence_tier", string(econ.ConfidenceTier)).
		Msg("Order economics calculated")

	return econ
}

// KellyBaseQuantity seeds the quantity from the Kelly fraction, treating
// confidence as the win probability against the configured average-win/loss
// assumptions, then caps it by the per-position budget.
func (c *Calculator) KellyBaseQuantity(balance, price, confidence float64) float64 {
	if !isFinite(confidence) || confidence < 0 || confidence > 1 {
		c.log.Warn().Float64("confidence", confidence).Msg("Kelly base: confidence out of range")
		return 0
	}

	f := formulas.KellyFraction(confidence, c.cfg.AvgWin, c.cfg.AvgLoss)
	size := balance * f / price

	budget := balance * c.cfg.MaxPositionPct / price
	if size > budget {
		size = budget
	}
	return size
}

// ConditionMultiplier looks up the market-regime multiplier; unknown or
// empty conditions are neutral.
func (c *Calculator) ConditionMultiplier(condition domain.MarketCondition) float64 {
	if m, ok := c.cfg.ConditionMultipliers[condition]; ok {
		return m
	}
	return 1.0
}

// RoundToTradeUnit rounds a fractional size down to the nearest whole
// multiple of the configured trade unit. Sizes below one unit become zero.
func (c *Calculator) RoundToTradeUnit(size float64) int {
	unit := c.cfg.TradeUnit
	if unit < 1 {
		unit = 1
	}
	if !isFinite(size) || size < float64(unit) {
		return 0
	}
	return (int(math.Floor(size)) / unit) * unit
}

// applyVolatility reuses the shrink-above-1/grow-below discipline but keyed
// off a fixed 5% daily tolerance so orders in calm regimes are not starved.
func (c *Calculator) applyVolatility(size, volatility float64) float64 {
	const tolerance = 0.05

	if !isFinite(volatility) || volatility < 0 {
		c.log.Warn().Float64("volatility", volatility).Msg("Volatility adjustment: invalid volatility, passing size through")
		return size
	}
	if volatility > tolerance {
		return size * tolerance / volatility
	}
	return size
}

// applyCorrelation shrinks the quantity once correlation to the reference
// basket exceeds the configured ceiling, by the same linear discipline the
// position sizer uses. Uncorrelated candidates pass through.
func (c *Calculator) applyCorrelation(size, correlation float64) float64 {
	if !isFinite(correlation) || correlation < -1 || correlation > 1 {
		c.log.Warn().Float64("correlation", correlation).Msg("Correlation adjustment: invalid correlation, passing size through")
		return size
	}
	if correlation > c.cfg.CorrelationCeiling {
		return size * (1 - (correlation - c.cfg.CorrelationCeiling))
	}
	return size
}

// dampenForExistingExposure shrinks new size linearly as the symbol's current
// exposure approaches the per-symbol cap; at or above the cap the order is
// suppressed entirely. A missing ledger or ledger error passes through.
func (c *Calculator) dampenForExistingExposure(symbol string, price, size float64) float64 {
	if c.ledger == nil || c.cfg.ExposureCap <= 0 {
		return size
	}

	exposure, err := c.ledger.ExposureFor(symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Exposure lookup failed, skipping dampening")
		return size
	}
	if exposure <= 0 {
		return size
	}

	factor := 1 - exposure/c.cfg.ExposureCap
	if factor <= 0 {
		c.log.Debug().
			Str("symbol", symbol).
			Float64("exposure", exposure).
			Msg("Symbol at exposure cap, suppressing order")
		return 0
	}
	return size * factor
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
