package risk

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
)

// PositionSchema is the DDL for the position registry database
const PositionSchema = `
CREATE TABLE IF NOT EXISTS positions (
	id             TEXT PRIMARY KEY,
	symbol         TEXT NOT NULL UNIQUE,
	direction      TEXT NOT NULL,
	entry_price    REAL NOT NULL,
	current_price  REAL NOT NULL,
	size           REAL NOT NULL,
	stop_loss      REAL NOT NULL,
	take_profit    REAL NOT NULL,
	confidence     REAL NOT NULL,
	volatility     REAL NOT NULL,
	max_loss       REAL,
	status         TEXT NOT NULL,
	close_reason   TEXT,
	unrealized_pnl REAL NOT NULL DEFAULT 0,
	opened_at      TEXT NOT NULL,
	closed_at      TEXT
);

CREATE INDEX IF NOT EXISTS idx_positions_status ON positions(status);
`

// PositionRepository persists positions as flat rows. Timestamps are stored
// as RFC3339 strings so rows survive export to any structured format.
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

// Save inserts or replaces the position row for its symbol
func (r *PositionRepository) Save(pos *Position) error {
	var closedAt interface{}
	if pos.ClosedAt != nil {
		closedAt = pos.ClosedAt.Format(time.RFC3339)
	}
	var closeReason interface{}
	if pos.CloseReason != "" {
		closeReason = string(pos.CloseReason)
	}
	var maxLoss interface{}
	if pos.MaxLossAmount != nil {
		maxLoss = *pos.MaxLossAmount
	}

	_, err := r.db.Exec(`INSERT INTO positions (
			id, symbol, direction, entry_price, current_price, size,
			stop_loss, take_profit, confidence, volatility, max_loss,
			status, close_reason, unrealized_pnl, opened_at, closed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			id = excluded.id,
			direction = excluded.direction,
			entry_price = excluded.entry_price,
			current_price = excluded.current_price,
			size = excluded.size,
			stop_loss = excluded.stop_loss,
			take_profit = excluded.take_profit,
			confidence = excluded.confidence,
			volatility = excluded.volatility,
			max_loss = excluded.max_loss,
			status = excluded.status,
			close_reason = excluded.close_reason,
			unrealized_pnl = excluded.unrealized_pnl,
			opened_at = excluded.opened_at,
			closed_at = excluded.closed_at`,
		pos.ID, pos.Symbol, string(pos.Direction), pos.EntryPrice, pos.CurrentPrice, pos.Size,
		pos.StopLoss, pos.TakeProfit, pos.Confidence, pos.Volatility, maxLoss,
		string(pos.Status), closeReason, pos.UnrealizedPnL,
		pos.OpenedAt.Format(time.RFC3339), closedAt)
	if err != nil {
		return fmt.Errorf("failed to save position %s: %w", pos.Symbol, err)
	}
	return nil
}

// GetBySymbol returns the position for a symbol, or (nil, nil) when absent
func (r *PositionRepository) GetBySymbol(symbol string) (*Position, error) {
	row := r.db.QueryRow(`SELECT id, symbol, direction, entry_price, current_price, size,
		stop_loss, take_profit, confidence, volatility, max_loss,
		status, close_reason, unrealized_pnl, opened_at, closed_at
		FROM positions WHERE symbol = ?`, symbol)

	pos, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position %s: %w", symbol, err)
	}
	return pos, nil
}

// GetAll returns every stored position
func (r *PositionRepository) GetAll() ([]*Position, error) {
	rows, err := r.db.Query(`SELECT id, symbol, direction, entry_price, current_price, size,
		stop_loss, take_profit, confidence, volatility, max_loss,
		status, close_reason, unrealized_pnl, opened_at, closed_at
		FROM positions ORDER BY opened_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}

// GetActive returns the stored positions still in the ACTIVE state
func (r *PositionRepository) GetActive() ([]*Position, error) {
	rows, err := r.db.Query(`SELECT id, symbol, direction, entry_price, current_price, size,
		stop_loss, take_profit, confidence, volatility, max_loss,
		status, close_reason, unrealized_pnl, opened_at, closed_at
		FROM positions WHERE status = ? ORDER BY opened_at`, string(domain.PositionActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query active positions: %w", err)
	}
	defer rows.Close()

	var positions []*Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}

// Delete removes a symbol's position row
func (r *PositionRepository) Delete(symbol string) error {
	if _, err := r.db.Exec(`DELETE FROM positions WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to delete position %s: %w", symbol, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(row rowScanner) (*Position, error) {
	var pos Position
	var direction, status, openedAt string
	var closeReason, closedAt sql.NullString
	var maxLoss sql.NullFloat64

	err := row.Scan(&pos.ID, &pos.Symbol, &direction, &pos.EntryPrice, &pos.CurrentPrice, &pos.Size,
		&pos.StopLoss, &pos.TakeProfit, &pos.Confidence, &pos.Volatility, &maxLoss,
		&status, &closeReason, &pos.UnrealizedPnL, &openedAt, &closedAt)
	if err != nil {
		return nil, err
	}

	pos.Direction = domain.Direction(direction)
	pos.Status = domain.PositionStatus(status)
	if closeReason.Valid {
		pos.CloseReason = domain.CloseReason(closeReason.String)
	}
	if maxLoss.Valid {
		v := maxLoss.Float64
		pos.MaxLossAmount = &v
	}

	opened, err := time.Parse(time.RFC3339, openedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid opened_at %q: %w", openedAt, err)
	}
	pos.OpenedAt = opened

	if closedAt.Valid && closedAt.String != "" {
		closed, err := time.Parse(time.RFC3339, closedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid closed_at %q: %w", closedAt.String, err)
		}
		pos.ClosedAt = &closed
	}

	return &pos, nil
}
