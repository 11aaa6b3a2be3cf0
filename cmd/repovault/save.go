package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/config"
	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/orchestrator"
	"github.com/repovault/repovault/report"
	"github.com/repovault/repovault/storage"
)

var (
	flagStrict  bool
	flagWorkers int
	flagDryRun  bool
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the configured entities to the snapshot store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, orchestrator.OperationSave)
	},
}

func init() {
	addRunFlags(saveCmd)
	rootCmd.AddCommand(saveCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "abort when an enabled entity depends on a disabled one")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent entities per level (overrides config)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "validate and print the execution plan without running")
}

// runOperation executes one save or restore run and renders the report.
// A run with failed entities returns an error so the process exits non-zero.
func runOperation(cmd *cobra.Command, op orchestrator.Operation) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strict") {
		cfg.Run.StrictDependencies = flagStrict
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers = flagWorkers
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{
		orchestrator.WithConfigValues(cfg.EntityValues(entity.Catalog())),
		orchestrator.WithStrict(cfg.Run.StrictDependencies),
		orchestrator.WithWorkers(cfg.Run.Workers),
		orchestrator.WithEntityTimeout(cfg.Run.EntityTimeout),
		orchestrator.WithLogger(logger.Logger),
	}

	newOrch := orchestrator.NewSave
	if op == orchestrator.OperationRestore {
		newOrch = orchestrator.NewRestore
	}

	if flagDryRun {
		levels, err := newOrch(opts...).Plan()
		if err != nil {
			return err
		}
		for i, level := range levels {
			fmt.Printf("level %d: %s\n", i+1, strings.Join(level, ", "))
		}
		return nil
	}

	services, store, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	runMetrics, err := newRunMetrics(cfg)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	opts = append(opts,
		orchestrator.WithFactory(newFactory(logger)),
		orchestrator.WithServices(services),
		orchestrator.WithMetrics(runMetrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := newOrch(opts...).Run(ctx)
	if err != nil {
		return err
	}
	if op == orchestrator.OperationSave && rep.Success {
		if err := store.WriteManifest(snapshotManifest(cfg, rep)); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}
	if err := report.Render(os.Stdout, rep); err != nil {
		return err
	}
	if !rep.Success {
		return fmt.Errorf("%s completed with failures", op)
	}
	return nil
}

// snapshotManifest summarizes a completed save run for the snapshot store.
// Only entities that succeeded contribute counts.
func snapshotManifest(cfg config.Config, rep *orchestrator.Report) storage.Manifest {
	counts := make(map[string]int, len(rep.Results))
	for _, r := range rep.Results {
		if r.Status == orchestrator.Succeeded {
			counts[r.Entity] = r.Items
		}
	}
	return storage.Manifest{
		CreatedAt: rep.EndedAt,
		Owner:     cfg.Remote.Owner,
		Repo:      cfg.Remote.Repo,
		Counts:    counts,
	}
}
