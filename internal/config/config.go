package config

import (
	"time"

	"github.com/specialistvlad/fieldrover/internal/geo"
)

// Defaults applied when the file leaves a value out.
const (
	DefaultWorldFile      = "world.json"
	DefaultStepDelay      = time.Second
	DefaultReportInterval = time.Second
	DefaultRetryInterval  = 5 * time.Second
	DefaultNamespace      = "/"
	DefaultEvent          = "location"
)

// Config is the controller configuration.
type Config struct {
	WorldFile string
	// Charger is the fallback charger location, used when the world file
	// has no charger entry. Nil when unset.
	Charger        *geo.Node
	StepDelay      time.Duration
	ReportInterval time.Duration
	Persistence    Persistence
	// Telemetry is nil when location reports are only printed.
	Telemetry   *Telemetry
	Healthcheck Healthcheck
}

// Persistence configures world file retries.
type Persistence struct {
	RetryInterval time.Duration
	// MaxAttempts of 0 retries forever.
	MaxAttempts int
}

// Telemetry configures the socket.io location reporter.
type Telemetry struct {
	URL       string
	Namespace string
	Event     string
	// InsecureSkipVerify disables TLS certificate checks.
	InsecureSkipVerify bool
}

// Healthcheck configures the HTTP health and metrics server. Port 0
// disables it.
type Healthcheck struct {
	Port int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		WorldFile:      DefaultWorldFile,
		StepDelay:      DefaultStepDelay,
		ReportInterval: DefaultReportInterval,
		Persistence:    Persistence{RetryInterval: DefaultRetryInterval},
	}
}
