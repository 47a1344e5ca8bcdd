package app

import (
	"fmt"
	"slices"
)

// Config holds the process-level settings gathered from the command line.
type Config struct {
	ConfigPath string // HCL controller file, optional
	WorldPath  string // overrides world_file from ConfigPath when set

	LogFormat       string
	LogLevel        string
	HealthcheckPort int // overrides the healthcheck block when positive
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q, expected one of %v", cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q, expected one of %v", cfg.LogFormat, logFormats)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
