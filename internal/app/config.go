package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectDir string // directory holding project.hcl

	LogFormat   string
	LogLevel    string
	MetricsAddr string // empty disables the metrics server
	Workers     int    // scheduler workers; 0 means one per CPU
	MaxJobs     int    // value of the max-jobs variable; 0 means one per CPU
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("ProjectDir is a required configuration field and cannot be empty")
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Workers < 0 || cfg.MaxJobs < 0 {
		return nil, errors.New("worker and job counts must not be negative")
	}
	return &cfg, nil
}
