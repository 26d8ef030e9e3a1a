// Package config loads the coachsync configuration from the user's config
// file and environment. Environment variables override file values, file
// values override defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the coachsync CLI.
type Config struct {
	// RemoteURL is the base URL of the record service.
	RemoteURL string `yaml:"remote_url"`
	// Token is the bearer token sent on every remote request.
	Token string `yaml:"token"`
	// DBPath is the local cache database. Empty means ~/.coachsync/coachsync.db.
	DBPath string `yaml:"db_path"`
	// RequestTimeoutMs bounds each remote request.
	RequestTimeoutMs int `yaml:"request_timeout_ms"`
	// PollIntervalSec is how often the connectivity watcher probes the remote.
	PollIntervalSec int `yaml:"poll_interval_sec"`
}

// DefaultConfig returns a Config with sensible defaults. The remote URL
// points at a local development server; real deployments set it in the
// config file or COACHSYNC_REMOTE_URL.
func DefaultConfig() Config {
	return Config{
		RemoteURL:        "http://localhost:8000",
		RequestTimeoutMs: 10000,
		PollIntervalSec:  15,
	}
}

// Path returns the config file location: COACHSYNC_CONFIG if set, else
// ~/.coachsync/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("COACHSYNC_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".coachsync", "config.yaml"), nil
}

// Load reads configuration from the config file (if present) and the
// environment, falling back to defaults for any unset values. A missing
// config file is not an error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, readErr := os.ReadFile(path); readErr == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(readErr) {
		return cfg, fmt.Errorf("reading %s: %w", path, readErr)
	}

	applyEnv(&cfg)

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".coachsync", "coachsync.db")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COACHSYNC_REMOTE_URL"); v != "" {
		cfg.RemoteURL = v
	}
	if v := os.Getenv("COACHSYNC_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("COACHSYNC_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COACHSYNC_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutMs = n
		}
	}
	if v := os.Getenv("COACHSYNC_POLL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalSec = n
		}
	}
}

// RequestTimeout returns the remote request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// PollInterval returns the connectivity probe interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}
