// Package server provides the HTTP server and routing for Helmsman.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/config"
	"github.com/aristath/helmsman/internal/database"
	"github.com/aristath/helmsman/internal/modules/allocation"
	allocationhandlers "github.com/aristath/helmsman/internal/modules/allocation/handlers"
	"github.com/aristath/helmsman/internal/modules/orders"
	ordershandlers "github.com/aristath/helmsman/internal/modules/orders/handlers"
	"github.com/aristath/helmsman/internal/modules/risk"
	riskhandlers "github.com/aristath/helmsman/internal/modules/risk/handlers"
	"github.com/aristath/helmsman/internal/modules/sizing"
	sizinghandlers "github.com/aristath/helmsman/internal/modules/sizing/handlers"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Config      *config.Config
	PositionsDB *database.DB
	SnapshotsDB *database.DB

	Sizer      *sizing.Sizer
	Calculator *orders.Calculator
	Allocator  *allocation.Allocator
	Engine     *risk.Engine
	Tracker    *risk.VolatilityTracker

	PositionRepo *risk.PositionRepository
	SnapshotRepo *risk.SnapshotRepository
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	positionsDB    *database.DB
	snapshotsDB    *database.DB
	systemHandlers *SystemHandlers
	tickHub        *TickHub
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Config,
		positionsDB: cfg.PositionsDB,
		snapshotsDB: cfg.SnapshotsDB,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.PositionsDB, cfg.SnapshotsDB)
	s.tickHub = NewTickHub(cfg.Engine, cfg.Tracker, cfg.PositionRepo, cfg.Log)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes mounts all module routes
func (s *Server) setupRoutes(cfg Config) {
	log := s.log

	sizingHandler := sizinghandlers.NewHandler(cfg.Sizer, nil, nil, log)
	ordersHandler := ordershandlers.NewHandler(cfg.Calculator, nil, nil, log)
	riskHandler := riskhandlers.NewHandler(cfg.Engine, cfg.PositionRepo, cfg.SnapshotRepo, cfg.Config.AccountBalance, log)
	allocationHandler := allocationhandlers.NewHandler(cfg.Allocator, log)

	s.router.Route("/api", func(r chi.Router) {
		sizingHandler.RegisterRoutes(r)
		ordersHandler.RegisterRoutes(r)
		riskHandler.RegisterRoutes(r)
		allocationHandler.RegisterRoutes(r)

		r.Get("/health", s.systemHandlers.HandleHealth)
		r.Get("/system/stats", s.systemHandlers.HandleSystemStats)
	})

	s.router.Get("/ws/ticks", s.tickHub.HandleTicks)
}

// Router exposes the router, for tests and for embedding
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server; it blocks until shutdown or failure
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.tickHub.CloseAll()
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
