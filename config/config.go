// Package config loads and validates the YAML configuration file and
// resolves per-entity enablement values from it and the process
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/logging"
)

const (
	// Default remote settings
	defaultBaseURL = "https://api.github.com"

	// Default run settings
	defaultWorkers        = 4
	defaultEntityTimeout  = 10 * time.Minute
	defaultConflictPolicy = "skip"

	// Default monitoring settings
	defaultMetricsPrefix = "repovault"
	defaultJobName       = "repovault"

	// Default server settings
	defaultListen      = ":8080"
	defaultHistorySize = 50
)

// Config represents the complete application configuration.
type Config struct {
	Remote     RemoteConfig      `yaml:"remote"`
	Storage    StorageConfig     `yaml:"storage"`
	Run        RunConfig         `yaml:"run"`
	Entities   map[string]string `yaml:"entities"`
	Monitoring MonitoringConfig  `yaml:"monitoring"`
	Logging    logging.Config    `yaml:"logging"`
	Server     ServerConfig      `yaml:"server"`
}

// RemoteConfig identifies the repository on the forge API.
type RemoteConfig struct {
	// BaseURL is the API root. Defaults to the public endpoint.
	BaseURL string `yaml:"base_url"`

	// Token authenticates API requests. Optional for public repositories.
	Token string `yaml:"token"`

	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// GitURL is the clone URL for the repository mirror. Defaults to the
	// public HTTPS URL derived from owner and repo.
	GitURL string `yaml:"git_url"`
}

// StorageConfig controls the local snapshot store.
type StorageConfig struct {
	// Dir is the snapshot directory for this repository.
	Dir string `yaml:"dir"`

	// Compression enables zstd compression of stored documents.
	Compression bool `yaml:"compression"`

	// Passphrase enables encryption of stored documents when non-empty.
	Passphrase string `yaml:"passphrase"`
}

// RunConfig tunes run execution.
type RunConfig struct {
	// Workers bounds concurrency within one execution level.
	Workers int `yaml:"workers"`

	// EntityTimeout caps one entity's pipeline invocation.
	EntityTimeout time.Duration `yaml:"entity_timeout"`

	// StrictDependencies makes a disabled dependency fatal instead of
	// cascading the disable.
	StrictDependencies bool `yaml:"strict_dependencies"`

	// ConflictPolicy is applied when a restore finds an item that already
	// exists. Valid values: skip, overwrite.
	ConflictPolicy string `yaml:"conflict_policy"`
}

// MonitoringConfig holds metrics delivery settings.
type MonitoringConfig struct {
	// RemoteWriteURL is the Prometheus/VictoriaMetrics remote write base
	// URL used by one-shot runs. Empty disables metric pushing.
	RemoteWriteURL string `yaml:"remote_write_url"`

	MetricsPrefix string `yaml:"metrics_prefix"`
	JobName       string `yaml:"jobname"`
}

// ServerConfig holds settings for the long-running server mode.
type ServerConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Schedule is a cron expression for automatic save runs. Empty
	// disables scheduling.
	Schedule string `yaml:"schedule"`

	// HistoryDir persists run records on disk. Empty keeps history in
	// memory only.
	HistoryDir string `yaml:"history_dir"`

	// HistorySize bounds the number of retained run records.
	HistorySize int `yaml:"history_size"`

	// CertFile and KeyFile enable TLS when both are set. The certificate
	// is reloaded when the files change on disk.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.Remote.Owner == "" {
		return fmt.Errorf("remote owner is required")
	}
	if c.Remote.Repo == "" {
		return fmt.Errorf("remote repo is required")
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage dir is required")
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("run workers must be at least 1")
	}
	if c.Run.EntityTimeout <= 0 {
		return fmt.Errorf("entity timeout must be positive")
	}
	switch c.Run.ConflictPolicy {
	case "", "skip", "overwrite":
	default:
		return fmt.Errorf("conflict policy must be skip or overwrite, got %q", c.Run.ConflictPolicy)
	}
	if c.Server.HistorySize < 0 {
		return fmt.Errorf("history size must be positive")
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return fmt.Errorf("cert file and key file must be set together")
	}
	return nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = defaultBaseURL
	}
	if c.Remote.GitURL == "" && c.Remote.Owner != "" && c.Remote.Repo != "" {
		c.Remote.GitURL = fmt.Sprintf("https://github.com/%s/%s.git", c.Remote.Owner, c.Remote.Repo)
	}
	if c.Run.Workers == 0 {
		c.Run.Workers = defaultWorkers
	}
	if c.Run.EntityTimeout == 0 {
		c.Run.EntityTimeout = defaultEntityTimeout
	}
	if c.Run.ConflictPolicy == "" {
		c.Run.ConflictPolicy = defaultConflictPolicy
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
	if c.Server.HistorySize == 0 {
		c.Server.HistorySize = defaultHistorySize
	}
}

// Load reads the YAML config file at the given path, applies defaults and
// validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EntityValues resolves the configKey to raw value map for the given
// catalog. YAML values under entities: are read first, keyed by entity
// name; an environment variable named after the configKey overrides the
// file. Entities absent from both fall back to their descriptor default.
func (c *Config) EntityValues(catalog []entity.Descriptor) map[string]string {
	values := make(map[string]string)
	for _, d := range catalog {
		if raw, ok := c.Entities[d.Name]; ok {
			values[d.ConfigKey] = raw
		}
		if raw, ok := os.LookupEnv(d.ConfigKey); ok {
			values[d.ConfigKey] = raw
		}
	}
	return values
}
