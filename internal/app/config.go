package app

import (
	"errors"
	"fmt"
	"time"
)

// Runner modes.
const (
	ModeOnce = "once"
	ModeLoop = "loop"
)

// Config holds all the necessary configuration for an App instance to run.
// Empty values are filled from the loaded configuration files, then from
// defaults.
type Config struct {
	ConfigPaths []string // hcl files or directories

	AppName         string
	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Tick driver settings, consumed by the schedule runner plugin.
	Mode      string
	Wait      time.Duration
	MaxFrames uint64
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel != "" {
		if _, err := parseLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
	}
	switch cfg.Mode {
	case "", ModeOnce, ModeLoop:
	default:
		return nil, fmt.Errorf("unknown runner mode %q (want %s or %s)", cfg.Mode, ModeOnce, ModeLoop)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort)
	}
	if cfg.Wait < 0 {
		return nil, errors.New("wait cannot be negative")
	}
	return &cfg, nil
}
