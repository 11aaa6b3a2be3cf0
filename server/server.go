// Package server provides the long-running HTTP mode: an API to trigger
// and monitor runs, run history, scheduled saves, and a metrics endpoint.
//
// # Endpoints
//
//   - GET  /healthz - health check, returns "ok"
//   - GET  /api/status - run state, captured logs while running, next scheduled run
//   - POST /api/run - starts a save or restore run, 409 while one is active
//   - GET  /api/history - summaries of completed runs, most recent first
//   - GET  /api/history/record?id= - full record of one run with results and logs
//   - GET  /api/results - per-entity results of the last completed run
//   - GET  /metrics - prometheus scrape endpoint
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/repovault/repovault/config"
	"github.com/repovault/repovault/metrics"
	"github.com/repovault/repovault/server/cron"
	"github.com/repovault/repovault/server/handlers"
	"github.com/repovault/repovault/server/runner"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server is the HTTP server wrapping the run machinery.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     *runner.Runner
	trigger    *cron.Trigger
	scrape     *metrics.ScrapeRegistry
	httpServer *http.Server
}

// New creates a Server. The run function is invoked for each triggered run;
// history goes to disk when the config names a history directory.
func New(cfg *config.Config, logger *slog.Logger, run runner.RunFunc) (*Server, error) {
	var store runner.StateStore
	if cfg.Server.HistoryDir != "" {
		diskStore, err := runner.NewDiskStore(cfg.Server.HistoryDir, cfg.Server.HistorySize, logger)
		if err != nil {
			return nil, fmt.Errorf("creating history store: %w", err)
		}
		store = diskStore
	} else {
		store = runner.NewMemoryStore(cfg.Server.HistorySize)
	}

	scrape, err := metrics.NewScrapeRegistry()
	if err != nil {
		return nil, fmt.Errorf("creating metrics registry: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		runner: runner.New(logger, run, runner.WithStateStore(store)),
		scrape: scrape,
	}

	if cfg.Server.Schedule != "" {
		trigger, err := cron.NewTrigger(cfg.Server.Schedule, s.runner, logger)
		if err != nil {
			return nil, fmt.Errorf("creating scheduler: %w", err)
		}
		s.trigger = trigger
	}

	return s, nil
}

// Registry returns the scrape registry so runs can record metrics into it.
func (s *Server) Registry() metrics.Registry {
	return s.scrape
}

// NextRun returns the next scheduled run time, nil when unscheduled.
func (s *Server) NextRun() *time.Time {
	if s.trigger == nil {
		return nil
	}
	next := s.trigger.NextRun()
	return &next
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Listen,
		Handler:      mux,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	if s.trigger != nil {
		s.logger.Info("starting scheduler", "next_run", s.trigger.NextRun())
		s.trigger.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.cfg.Server.Listen)
		err := s.listenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) listenAndServe() error {
	if s.cfg.Server.CertFile == "" {
		return s.httpServer.ListenAndServe()
	}

	loader, err := NewCertLoader(s.cfg.Server.CertFile, s.cfg.Server.KeyFile, s.logger)
	if err != nil {
		return fmt.Errorf("loading tls certificate: %w", err)
	}
	s.httpServer.TLSConfig = loader.TLSConfig()
	return s.httpServer.ListenAndServeTLS("", "")
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handlers.HandleHealth)
	mux.Handle("GET /api/status", handlers.NewStatusHandler(s))
	mux.Handle("POST /api/run", handlers.NewRunHandler(s.runner))
	mux.Handle("GET /api/history", handlers.NewHistoryHandler(s.runner))
	mux.Handle("GET /api/history/record", handlers.NewHistoryRecordHandler(s.runner))
	mux.Handle("GET /api/results", handlers.NewResultsHandler(s.runner))
	mux.Handle("GET /metrics", s.scrape.Handler())
}

// Status delegates to the runner for the status endpoint.
func (s *Server) Status() runner.RunStatus {
	return s.runner.Status()
}
