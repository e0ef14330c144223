// Package main is the entry point for the Helmsman risk engine, an HTTP
// service for risk-adjusted position sizing, order economics, portfolio
// risk tracking and capital allocation.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/config"
	"github.com/aristath/helmsman/internal/database"
	"github.com/aristath/helmsman/internal/modules/allocation"
	"github.com/aristath/helmsman/internal/modules/orders"
	"github.com/aristath/helmsman/internal/modules/risk"
	"github.com/aristath/helmsman/internal/modules/sizing"
	"github.com/aristath/helmsman/internal/scheduler"
	"github.com/aristath/helmsman/internal/server"
	"github.com/aristath/helmsman/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting Helmsman")

	// Position registry on the durable profile, snapshot history on the
	// cache profile: losing history is acceptable, losing positions is not.
	positionsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "positions.db"),
		Profile: database.ProfileStandard,
		Name:    "positions",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open positions database")
	}
	defer positionsDB.Close()

	if err := positionsDB.Migrate(risk.PositionSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate positions database")
	}

	snapshotsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "snapshots.db"),
		Profile: database.ProfileCache,
		Name:    "snapshots",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshots database")
	}
	defer snapshotsDB.Close()

	if err := snapshotsDB.Migrate(risk.SnapshotSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate snapshots database")
	}

	positionRepo := risk.NewPositionRepository(positionsDB.Conn(), log)
	snapshotRepo := risk.NewSnapshotRepository(snapshotsDB.Conn(), log)

	engine := risk.NewEngine(log)
	restoreActivePositions(engine, positionRepo, log)

	tracker := risk.NewVolatilityTracker(20, log)
	sizer := sizing.NewSizer(sizing.DefaultConfig(), log)
	calculator := orders.NewCalculator(orders.DefaultConfig(), engine, log)
	allocator := allocation.NewAllocator(sizer, log)

	sched := scheduler.New(log)
	snapshotJob := scheduler.NewSnapshotJob(
		engine,
		snapshotRepo,
		func() float64 { return cfg.AccountBalance },
		cfg.SnapshotHistory,
		log,
	)
	if err := sched.AddJob(cfg.SnapshotSchedule, snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:          log,
		Config:       cfg,
		PositionsDB:  positionsDB,
		SnapshotsDB:  snapshotsDB,
		Sizer:        sizer,
		Calculator:   calculator,
		Allocator:    allocator,
		Engine:       engine,
		Tracker:      tracker,
		PositionRepo: positionRepo,
		SnapshotRepo: snapshotRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Helmsman stopped")
}

// restoreActivePositions rebuilds the in-memory registry from storage so a
// restart does not lose protective levels.
func restoreActivePositions(engine *risk.Engine, repo *risk.PositionRepository, log zerolog.Logger) {
	positions, err := repo.GetActive()
	if err != nil {
		log.Error().Err(err).Msg("Failed to restore positions, starting empty")
		return
	}

	for _, pos := range positions {
		engine.Restore(pos)
	}
	if len(positions) > 0 {
		log.Info().Int("count", len(positions)).Msg("Restored active positions")
	}
}
