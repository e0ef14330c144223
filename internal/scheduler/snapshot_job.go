package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/modules/risk"
)

// SnapshotJob periodically captures a portfolio risk snapshot, persists it,
// and surfaces alert-worthy conditions in the log so a downstream alerting
// layer (or a human tailing the log) can react.
type SnapshotJob struct {
	engine  *risk.Engine
	repo    *risk.SnapshotRepository
	balance func() float64 // account balance at capture time
	history int            // snapshots to retain
	log     zerolog.Logger
}

// NewSnapshotJob creates the periodic snapshot job. The repo may be nil, in
// which case snapshots are computed for alerting only and not persisted.
func NewSnapshotJob(
	engine *risk.Engine,
	repo *risk.SnapshotRepository,
	balance func() float64,
	history int,
	log zerolog.Logger,
) *SnapshotJob {
	return &SnapshotJob{
		engine:  engine,
		repo:    repo,
		balance: balance,
		history: history,
		log:     log.With().Str("job", "portfolio_snapshot").Logger(),
	}
}

// Name implements Job
func (j *SnapshotJob) Name() string {
	return "portfolio_snapshot"
}

// Run implements Job
func (j *SnapshotJob) Run() error {
	snap := j.engine.Snapshot(j.balance())

	for _, alert := range snap.Alerts {
		j.log.Warn().
			Float64("risk_score", snap.RiskScore).
			Float64("exposure_ratio", snap.ExposureRatio).
			Msg("Portfolio alert: " + alert)
	}

	if j.repo == nil {
		return nil
	}

	if err := j.repo.Save(&snap); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if j.history > 0 {
		if err := j.repo.Prune(j.history); err != nil {
			return fmt.Errorf("failed to prune snapshot history: %w", err)
		}
	}

	j.log.Debug().
		Int("positions", snap.PositionCount).
		Float64("risk_score", snap.RiskScore).
		Msg("Snapshot captured")

	return nil
}
