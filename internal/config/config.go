// Package config loads the optional YAML configuration file. A missing file
// is not an error; every field has a usable default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvDBPath overrides the database path when set.
const EnvDBPath = "AGENT_STATE_DB"

// Config is the on-disk configuration.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	Verbose bool          `yaml:"verbose"`
	Session SessionConfig `yaml:"session"`
	Reaper  ReaperConfig  `yaml:"reaper"`
}

// SessionConfig bounds the session snapshot. Zero values fall back to the
// coordinator's defaults.
type SessionConfig struct {
	Goals           int     `yaml:"goals"`
	PendingTasks    int     `yaml:"pending_tasks"`
	InProgressTasks int     `yaml:"in_progress_tasks"`
	RecentEvents    int     `yaml:"recent_events"`
	MinEventWeight  float64 `yaml:"min_event_weight"`
	WorkingItems    int     `yaml:"working_items"`
	HandoffDays     int     `yaml:"handoff_days"`
}

// ReaperConfig controls the optional expired-row sweep. Disabled by default;
// expiry is a read-time filter and deletion is deliberate.
type ReaperConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Reaper: ReaperConfig{IntervalMinutes: 60},
	}
}

// DefaultDir is where state and configuration live unless overridden.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agent-state"
	}
	return filepath.Join(home, ".agent-state")
}

// DefaultPath is the configuration file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveDBPath picks the database path: explicit flag, then environment,
// then config file, then the default location.
func (c Config) ResolveDBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDBPath); env != "" {
		return env
	}
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(DefaultDir(), "state.db")
}
