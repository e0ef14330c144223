package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/pkg/formulas"
)

// Alert thresholds for portfolio snapshots
const (
	alertRiskScore     = 70.0
	alertExposureRatio = 0.8
)

// PortfolioSnapshot is the point-in-time portfolio risk picture. It is
// derived from the live position set and owned by nobody.
type PortfolioSnapshot struct {
	ID                  string    `json:"id"`
	PortfolioVaR        float64   `json:"portfolio_var"`
	PortfolioVolatility float64   `json:"portfolio_volatility"` // exposure-weighted
	MaxDrawdown         float64   `json:"max_drawdown"`
	DrawdownDuration    int       `json:"drawdown_duration"`
	SharpeRatio         float64   `json:"sharpe_ratio"`
	RiskScore           float64   `json:"risk_score"` // 0..100
	PositionCount       int       `json:"position_count"`
	TotalExposure       float64   `json:"total_exposure"`
	ExposureRatio       float64   `json:"exposure_ratio"`
	Alerts              []string  `json:"alerts,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
}

// Engine owns the position registry. All create/update/close transitions go
// through the engine's mutex so concurrent price updates for the same symbol
// cannot race each other into conflicting close reasons.
type Engine struct {
	mu        sync.RWMutex
	positions map[string]*Position // keyed by symbol, one active position per symbol

	// equity history feeds drawdown and Sharpe; appended on each snapshot
	equityCurve  []float64
	maxEquityLen int

	log zerolog.Logger
}

// NewEngine creates an empty position registry
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		positions:    make(map[string]*Position),
		maxEquityLen: 1000,
		log:          log.With().Str("component", "risk_engine").Logger(),
	}
}

// Create opens a tracked position for a symbol. One active position per
// symbol: creating over an existing ACTIVE position is an error, but a
// CLOSED one is replaced.
func (e *Engine) Create(symbol string, direction domain.Direction, entryPrice, size, confidence, volatility float64, maxLoss *float64) (*Position, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("unknown direction %q", direction)
	}
	if entryPrice <= 0 || size <= 0 {
		return nil, fmt.Errorf("entry price and size must be positive")
	}
	if volatility < 0 || confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("volatility must be >= 0 and confidence in [0,1]")
	}
	if maxLoss != nil && *maxLoss <= 0 {
		return nil, fmt.Errorf("max loss amount must be positive when set")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.positions[symbol]; ok && existing.Status == domain.PositionActive {
		return nil, fmt.Errorf("active position already exists for %s", symbol)
	}

	pos := NewPosition(symbol, direction, entryPrice, size, confidence, volatility, maxLoss)
	e.positions[symbol] = pos

	e.log.Info().
		Str("symbol", symbol).
		Str("direction", string(direction)).
		Float64("entry_price", entryPrice).
		Float64("stop_loss", pos.StopLoss).
		Float64("take_profit", pos.TakeProfit).
		Msg("Position opened")

	return snapshotOf(pos), nil
}

// Update applies a price to the symbol's position and fires the protective
// trigger if one is crossed. The returned position is a copy; the boolean
// reports whether this call closed it. Unknown symbols and already-closed
// positions are no-ops.
func (e *Engine) Update(symbol string, price float64) (*Position, bool) {
	if price <= 0 {
		e.log.Warn().Str("symbol", symbol).Float64("price", price).Msg("Ignoring non-positive price update")
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.positions[symbol]
	if !ok || pos.Status == domain.PositionClosed {
		return nil, false
	}

	reason, triggered := pos.applyPrice(price)
	if !triggered {
		return snapshotOf(pos), false
	}

	pos.close(reason)
	e.log.Info().
		Str("symbol", symbol).
		Str("close_reason", string(reason)).
		Float64("price", price).
		Float64("unrealized_pnl", pos.UnrealizedPnL).
		Msg("Position closed")

	return snapshotOf(pos), true
}

// Get returns a copy of the symbol's position, or nil when untracked
func (e *Engine) Get(symbol string) *Position {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos, ok := e.positions[symbol]
	if !ok {
		return nil
	}
	return snapshotOf(pos)
}

// Remove drops a symbol from the registry entirely
func (e *Engine) Remove(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.positions, symbol)
}

// ActivePositions returns copies of all ACTIVE positions
func (e *Engine) ActivePositions() []*Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeLocked()
}

// AllPositions returns copies of every tracked position, closed included
func (e *Engine) AllPositions() []*Position {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Position, 0, len(e.positions))
	for _, pos := range e.positions {
		out = append(out, snapshotOf(pos))
	}
	return out
}

// Snapshot aggregates portfolio-level risk against an account balance. It
// copies the active set under the lock and computes outside it. Positions
// are never modified, but each call does have one deliberate side effect:
// it appends the current equity point (balance plus unrealized P&L) to the
// engine's bounded history, which is what feeds the drawdown and Sharpe
// figures of later snapshots. Empty portfolios yield a zeroed snapshot,
// not an error.
func (e *Engine) Snapshot(balance float64) PortfolioSnapshot {
	snap := PortfolioSnapshot{Timestamp: time.Now().UTC()}

	e.mu.Lock()
	active := e.activeLocked()

	equity := balance
	for _, pos := range active {
		equity += pos.UnrealizedPnL
	}
	e.equityCurve = append(e.equityCurve, equity)
	if len(e.equityCurve) > e.maxEquityLen {
		e.equityCurve = e.equityCurve[len(e.equityCurve)-e.maxEquityLen:]
	}
	curve := make([]float64, len(e.equityCurve))
	copy(curve, e.equityCurve)
	e.mu.Unlock()

	snap.PositionCount = len(active)
	if len(active) == 0 {
		return snap
	}

	totalExposure := 0.0
	for _, pos := range active {
		totalExposure += pos.Exposure()
	}
	snap.TotalExposure = totalExposure
	if balance > 0 {
		snap.ExposureRatio = totalExposure / balance
	}

	// Exposure-weighted portfolio volatility, then parametric VaR on the
	// whole book. Cross-correlations are ignored, which overstates risk;
	// that bias is the safe direction for alerting.
	weightedVol := 0.0
	for _, pos := range active {
		if totalExposure > 0 {
			weightedVol += pos.Volatility * pos.Exposure() / totalExposure
		}
	}
	snap.PortfolioVolatility = weightedVol
	snap.PortfolioVaR = formulas.ValueAtRisk(totalExposure, weightedVol, 0.95)

	snap.MaxDrawdown, snap.DrawdownDuration = formulas.MaxDrawdown(curve)
	snap.SharpeRatio = formulas.SharpeRatio(formulas.CalculateReturns(curve))

	varRatio := 0.0
	if totalExposure > 0 {
		varRatio = snap.PortfolioVaR / totalExposure
	}
	snap.RiskScore = formulas.RiskScore(varRatio, weightedVol, snap.MaxDrawdown, snap.SharpeRatio)

	if snap.RiskScore > alertRiskScore {
		snap.Alerts = append(snap.Alerts, fmt.Sprintf("risk score %.1f exceeds %.0f", snap.RiskScore, alertRiskScore))
	}
	if snap.ExposureRatio > alertExposureRatio {
		snap.Alerts = append(snap.Alerts, fmt.Sprintf("exposure ratio %.2f exceeds %.2f", snap.ExposureRatio, alertExposureRatio))
	}

	return snap
}

// Restore re-registers a persisted position, keeping its identity and
// timestamps. Used at startup to rebuild the registry from storage.
func (e *Engine) Restore(pos *Position) {
	if pos == nil || pos.Symbol == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.positions[pos.Symbol] = snapshotOf(pos)
}

// ExposureFor implements domain.PortfolioLedger
func (e *Engine) ExposureFor(symbol string) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos, ok := e.positions[symbol]
	if !ok || pos.Status != domain.PositionActive {
		return 0, nil
	}
	return pos.Exposure(), nil
}

// OpenPositions implements domain.PortfolioLedger
func (e *Engine) OpenPositions() ([]domain.LedgerPosition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := e.activeLocked()
	out := make([]domain.LedgerPosition, 0, len(active))
	for _, pos := range active {
		out = append(out, domain.LedgerPosition{
			Symbol:        pos.Symbol,
			Quantity:      pos.Size,
			AveragePrice:  pos.EntryPrice,
			CurrentPrice:  pos.CurrentPrice,
			UnrealizedPnL: pos.UnrealizedPnL,
		})
	}
	return out, nil
}

// activeLocked returns copies of the ACTIVE positions; caller holds a lock
func (e *Engine) activeLocked() []*Position {
	var out []*Position
	for _, pos := range e.positions {
		if pos.Status == domain.PositionActive {
			out = append(out, snapshotOf(pos))
		}
	}
	return out
}

func snapshotOf(pos *Position) *Position {
	clone := *pos
	if pos.MaxLossAmount != nil {
		maxLoss := *pos.MaxLossAmount
		clone.MaxLossAmount = &maxLoss
	}
	if pos.ClosedAt != nil {
		closedAt := *pos.ClosedAt
		clone.ClosedAt = &closedAt
	}
	return &clone
}
