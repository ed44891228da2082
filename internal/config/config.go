// Package config loads runtime settings from HELIOS_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the process-wide knobs. Everything has a default; a
// fresh checkout runs with no environment at all.
type Settings struct {
	// SavePath is the SQLite save-game database location.
	SavePath string `envconfig:"SAVE_PATH" default:"helios-saves.db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// TickInterval drives diagnostics refresh, energy recovery and
	// repair completion while a session is running.
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"2s"`
}

// Load reads settings from the environment under the HELIOS prefix.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("helios", &s); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if _, err := s.SlogLevel(); err != nil {
		return Settings{}, err
	}
	if s.TickInterval <= 0 {
		return Settings{}, fmt.Errorf("tick interval must be positive, got %s", s.TickInterval)
	}
	return s, nil
}

// SlogLevel maps LogLevel to a slog level.
func (s Settings) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s.LogLevel)
	}
}
