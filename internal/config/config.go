// Package config loads daemon settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/fentz26/cadence/internal/scheduler"
)

// Config holds the daemon's runtime settings. Every field has a sane default
// so `cadence daemon` works with no environment at all.
type Config struct {
	ListenAddr string `env:"CADENCE_LISTEN_ADDR" envDefault:"127.0.0.1:7467"`
	DBPath     string `env:"CADENCE_DB_PATH"`
	LogLevel   string `env:"CADENCE_LOG_LEVEL" envDefault:"info"`

	// Placement window, in minutes from midnight.
	OpeningMinute   int `env:"CADENCE_DAY_START_MINUTE" envDefault:"540"`
	ClosingMinute   int `env:"CADENCE_DAY_END_MINUTE" envDefault:"1020"`
	FollowUpMinutes int `env:"CADENCE_FOLLOWUP_MINUTES" envDefault:"15"`
	LookaheadDays   int `env:"CADENCE_LOOKAHEAD_DAYS" envDefault:"14"`
}

// Load parses the environment and fills in derived defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".cadence", "cadence.db")
	}

	if cfg.OpeningMinute < 0 || cfg.ClosingMinute > 24*60 || cfg.OpeningMinute >= cfg.ClosingMinute {
		return nil, fmt.Errorf("invalid working day window: %d-%d", cfg.OpeningMinute, cfg.ClosingMinute)
	}
	if cfg.FollowUpMinutes <= 0 || cfg.FollowUpMinutes > cfg.ClosingMinute-cfg.OpeningMinute {
		return nil, fmt.Errorf("follow-up length %d does not fit the working day", cfg.FollowUpMinutes)
	}
	if cfg.LookaheadDays < 1 {
		return nil, fmt.Errorf("look-ahead must be at least 1 day, got %d", cfg.LookaheadDays)
	}

	return cfg, nil
}

// SchedulerConfig maps the environment settings onto the scheduler's window.
func (c *Config) SchedulerConfig() *scheduler.Config {
	return &scheduler.Config{
		OpeningMinute:    c.OpeningMinute,
		ClosingMinute:    c.ClosingMinute,
		FollowUpMinutes:  c.FollowUpMinutes,
		MaxLookaheadDays: c.LookaheadDays,
	}
}
