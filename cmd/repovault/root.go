package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/clients/gitclient"
	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/config"
	"github.com/repovault/repovault/logging"
	"github.com/repovault/repovault/metrics"
	"github.com/repovault/repovault/storage"
	"github.com/repovault/repovault/strategies"
	"github.com/repovault/repovault/strategy"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "repovault",
	Short:         "Back up and restore repository entities",
	Long:          "repovault saves a repository's labels, milestones, issues, pull requests, releases and git history to a local snapshot, and restores them to a repository.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the YAML config file")
}

func loadConfig() (config.Config, error) {
	if cfgFile == "" {
		return config.Config{}, fmt.Errorf("config flag (-c or --config) is required")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*logging.Logger, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// buildServices constructs the remote, git, and storage clients from the
// configuration and packs them into a strategy context. The snapshot store
// is also returned directly so callers can write the run manifest.
func buildServices(cfg config.Config, logger *logging.Logger) (*strategy.Context, *storage.Store, error) {
	remote, err := hubclient.New(cfg.Remote.BaseURL, cfg.Remote.Owner, cfg.Remote.Repo,
		hubclient.WithToken(cfg.Remote.Token))
	if err != nil {
		return nil, nil, fmt.Errorf("creating api client: %w", err)
	}

	git, err := gitclient.New(cfg.Remote.GitURL, gitclient.WithLogger(logger.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("creating git client: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Dir,
		storage.WithCompression(cfg.Storage.Compression),
		storage.WithPassphrase(cfg.Storage.Passphrase),
		storage.WithLogger(logger.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	policy := strategy.SkipExisting()
	if cfg.Run.ConflictPolicy == "overwrite" {
		policy = strategy.OverwriteExisting()
	}

	return strategy.NewContext(
		strategy.WithRemote(remote),
		strategy.WithGit(git),
		strategy.WithStore(store),
		strategy.WithConflictPolicy(policy),
	), store, nil
}

func newFactory(logger *logging.Logger) *strategy.Factory {
	return strategy.NewFactory(strategies.SaveBuilders(), strategies.RestoreBuilders(),
		strategy.WithLogger(logger.Logger))
}

// newRunMetrics returns push-mode metrics when a remote write URL is
// configured, and a no-op registry otherwise.
func newRunMetrics(cfg config.Config) (*metrics.RunMetrics, error) {
	var reg metrics.Registry = metrics.NopRegistry{}
	if cfg.Monitoring.RemoteWriteURL != "" {
		reg = metrics.NewPushRegistry(metrics.PushConfig{
			URL:    cfg.Monitoring.RemoteWriteURL,
			Prefix: cfg.Monitoring.MetricsPrefix,
			Job:    cfg.Monitoring.JobName,
		})
	}
	return metrics.NewRunMetrics(reg)
}
