package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/logging"
	"github.com/repovault/repovault/metrics"
	"github.com/repovault/repovault/orchestrator"
	"github.com/repovault/repovault/server"
	"github.com/repovault/repovault/server/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server with scheduled saves and run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		// Metrics registered once against the scrape registry; runs share
		// them. Services are rebuilt per run so each run sees fresh client
		// state.
		var runMetrics *metrics.RunMetrics
		run := runner.RunFunc(func(ctx context.Context, op orchestrator.Operation, hook logging.LoggerHook) (*orchestrator.Report, error) {
			services, store, err := buildServices(cfg, logger)
			if err != nil {
				return nil, err
			}

			opts := []orchestrator.Option{
				orchestrator.WithConfigValues(cfg.EntityValues(entity.Catalog())),
				orchestrator.WithStrict(cfg.Run.StrictDependencies),
				orchestrator.WithWorkers(cfg.Run.Workers),
				orchestrator.WithEntityTimeout(cfg.Run.EntityTimeout),
				orchestrator.WithLogger(logger.Logger),
				orchestrator.WithFactory(newFactory(logger)),
				orchestrator.WithServices(services),
				orchestrator.WithLoggerHook(hook),
				orchestrator.WithMetrics(runMetrics),
			}
			if op == orchestrator.OperationRestore {
				return orchestrator.NewRestore(opts...).Run(ctx)
			}
			rep, err := orchestrator.NewSave(opts...).Run(ctx)
			if err == nil && rep.Success {
				// A failed manifest write does not fail the run itself.
				if werr := store.WriteManifest(snapshotManifest(cfg, rep)); werr != nil {
					logger.Warn("writing manifest", "error", werr)
				}
			}
			return rep, err
		})

		srv, err := server.New(&cfg, logger.Logger, run)
		if err != nil {
			return err
		}
		runMetrics, err = metrics.NewRunMetrics(srv.Registry())
		if err != nil {
			return fmt.Errorf("creating metrics: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
