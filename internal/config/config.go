// Package config loads client settings from MEDICONNECT_* environment
// variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL         string        `env:"MEDICONNECT_API_URL,         default=http://localhost:8080/api"`
	RequestTimeout time.Duration `env:"MEDICONNECT_REQUEST_TIMEOUT, default=30s"`
	LogLevel       string        `env:"MEDICONNECT_LOG_LEVEL,       default=info"`
	LogPretty      bool          `env:"MEDICONNECT_LOG_PRETTY,      default=false"`
	// StateDir holds the session cookie and log file. Empty means
	// ~/.mediconnect.
	StateDir string `env:"MEDICONNECT_STATE_DIR"`
	// MetricsAddr, when set, serves Prometheus metrics on /metrics.
	MetricsAddr string `env:"MEDICONNECT_METRICS_ADDR"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: home dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".mediconnect")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("config.Load: MEDICONNECT_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return &cfg, nil
}

// SessionFile is where the session cookie is kept between runs.
func (c *Config) SessionFile() string {
	return filepath.Join(c.StateDir, "session")
}

// LogFile is where logs are written.
func (c *Config) LogFile() string {
	return filepath.Join(c.StateDir, "mediconnect.log")
}
