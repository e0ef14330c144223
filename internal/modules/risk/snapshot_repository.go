package risk

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotSchema is the DDL for the snapshot history database. The full
// snapshot travels as a msgpack blob; risk score and timestamp are lifted
// into columns for range queries without decoding.
const SnapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	taken_at   TEXT NOT NULL,
	risk_score REAL NOT NULL,
	payload    BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
`

// SnapshotRepository persists portfolio snapshot history. History is
// rebuildable data kept on the cache-profile database.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshot").Logger(),
	}
}

// Save stores a snapshot, assigning its ID when empty
func (r *SnapshotRepository) Save(snap *PortfolioSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}

	payload, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO snapshots (id, taken_at, risk_score, payload) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Timestamp.Format(time.RFC3339), snap.RiskScore, payload)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Recent returns up to limit snapshots, newest first
func (r *SnapshotRepository) Recent(limit int) ([]*PortfolioSnapshot, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(`SELECT payload FROM snapshots ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*PortfolioSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		var snap PortfolioSnapshot
		if err := msgpack.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// Latest returns the newest snapshot, or (nil, nil) when history is empty
func (r *SnapshotRepository) Latest() (*PortfolioSnapshot, error) {
	snapshots, err := r.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return snapshots[0], nil
}

// Prune trims history to the newest keep rows
func (r *SnapshotRepository) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY taken_at DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if removed, err := result.RowsAffected(); err == nil && removed > 0 {
		r.log.Debug().Int64("removed", removed).Int("keep", keep).Msg("Pruned snapshot history")
	}
	return nil
}

// Count returns the number of stored snapshots
func (r *SnapshotRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
