package risk

import (
	"time"

	"github.com/google/uuid"

	"github.com/aristath/helmsman/internal/domain"
)

// Position is a tracked holding with its protective levels. Lifecycle is
// ACTIVE until a price update crosses a trigger, then CLOSED (terminal).
type Position struct {
	ID            string                `json:"id"`
	Symbol        string                `json:"symbol"`
	Direction     domain.Direction      `json:"direction"`
	EntryPrice    float64               `json:"entry_price"`
	CurrentPrice  float64               `json:"current_price"`
	Size          float64               `json:"size"`
	StopLoss      float64               `json:"stop_loss"`
	TakeProfit    float64               `json:"take_profit"`
	Confidence    float64               `json:"confidence"`
	Volatility    float64               `json:"volatility"`
	MaxLossAmount *float64              `json:"max_loss_amount,omitempty"`
	Status        domain.PositionStatus `json:"status"`
	CloseReason   domain.CloseReason    `json:"close_reason,omitempty"`
	UnrealizedPnL float64               `json:"unrealized_pnl"`
	OpenedAt      time.Time             `json:"opened_at"`
	ClosedAt      *time.Time            `json:"closed_at,omitempty"`
}

// Protective-level sigma multipliers. Stops sit closer to entry than
// take-profits so the reward side of a trade is wider than the risk side.
const (
	stopLossSigma   = 2.0
	takeProfitSigma = 3.0
)

// NewPosition opens a position with stop-loss and take-profit levels derived
// from entry price, volatility and confidence rather than fixed percentages:
// low-confidence entries get wider stops (more room before being shaken
// out), high-confidence entries get farther take-profit targets. maxLoss is
// the optional monetary loss budget recorded at sizing time; nil means none
// was set.
func NewPosition(symbol string, direction domain.Direction, entryPrice, size, confidence, volatility float64, maxLoss *float64) *Position {
	stopOffset := entryPrice * volatility * stopLossSigma * (2 - confidence)
	profitOffset := entryPrice * volatility * takeProfitSigma * (1 + confidence)

	p := &Position{
		ID:            uuid.New().String(),
		Symbol:        symbol,
		Direction:     direction,
		EntryPrice:    entryPrice,
		CurrentPrice:  entryPrice,
		Size:          size,
		Confidence:    confidence,
		Volatility:    volatility,
		MaxLossAmount: maxLoss,
		Status:        domain.PositionActive,
		OpenedAt:      time.Now().UTC(),
	}

	if direction == domain.DirectionSell {
		p.StopLoss = entryPrice + stopOffset
		p.TakeProfit = entryPrice - profitOffset
	} else {
		p.StopLoss = entryPrice - stopOffset
		p.TakeProfit = entryPrice + profitOffset
	}

	return p
}

// Exposure returns the position's current monetary exposure
func (p *Position) Exposure() float64 {
	return p.CurrentPrice * p.Size
}

// applyPrice recomputes unrealized P&L for a new price and reports whether a
// protective level fired. Caller holds the registry lock.
func (p *Position) applyPrice(price float64) (domain.CloseReason, bool) {
	p.CurrentPrice = price

	if p.Direction == domain.DirectionSell {
		p.UnrealizedPnL = (p.EntryPrice - price) * p.Size
		switch {
		case price >= p.StopLoss:
			return domain.CloseReasonStopLoss, true
		case price <= p.TakeProfit:
			return domain.CloseReasonTakeProfit, true
		}
		return "", false
	}

	p.UnrealizedPnL = (price - p.EntryPrice) * p.Size
	switch {
	case price <= p.StopLoss:
		return domain.CloseReasonStopLoss, true
	case price >= p.TakeProfit:
		return domain.CloseReasonTakeProfit, true
	}
	return "", false
}

// close transitions the position to its terminal state. Caller holds the
// registry lock; the transition is applied at most once.
func (p *Position) close(reason domain.CloseReason) {
	if p.Status == domain.PositionClosed {
		return
	}
	now := time.Now().UTC()
	p.Status = domain.PositionClosed
	p.CloseReason = reason
	p.ClosedAt = &now
}
