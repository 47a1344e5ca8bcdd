package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/fieldrover/internal/config"
	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
	"github.com/specialistvlad/fieldrover/internal/metrics"
	"github.com/specialistvlad/fieldrover/internal/notifier"
	"github.com/specialistvlad/fieldrover/internal/pathfinder"
	"github.com/specialistvlad/fieldrover/internal/rover"
	"github.com/specialistvlad/fieldrover/internal/scheduler"
	"github.com/specialistvlad/fieldrover/internal/shell"
	"github.com/specialistvlad/fieldrover/internal/task"
	"github.com/specialistvlad/fieldrover/internal/world"
)

// App encapsulates the controller's collaborators and lifecycle.
type App struct {
	logger   *slog.Logger
	settings *config.Config
	metrics  *metrics.Registry

	model     *world.Model
	graph     *graph.Graph
	rover     *rover.Rover
	notifier  *notifier.Notifier
	scheduler *scheduler.DefaultScheduler
	shell     *shell.Shell
	telemetry io.Closer

	httpServer *http.Server
}

// New builds an App. Operator output goes to outW and logs to logW. ctx
// bounds startup: loading the world retries I/O failures until it succeeds,
// the retry budget runs out or ctx is cancelled.
func New(ctx context.Context, outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	settings, err := config.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.WorldPath != "" {
		settings.WorldFile = cfg.WorldPath
	}
	if cfg.HealthcheckPort > 0 {
		settings.Healthcheck.Port = cfg.HealthcheckPort
	}

	a := &App{logger: logger, settings: settings, metrics: metrics.NewRegistry()}

	store := world.NewRetrying(world.NewFileStore(settings.WorldFile), world.RetryPolicy{
		Interval:    settings.Persistence.RetryInterval,
		MaxAttempts: settings.Persistence.MaxAttempts,
	}, a.metrics)
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}
	logger.Info("World loaded.", "path", settings.WorldFile)

	fallback := geo.N(0, 0)
	if settings.Charger != nil {
		fallback = *settings.Charger
	}
	if a.graph, err = world.BuildGraph(ctx, doc, fallback); err != nil {
		return nil, fmt.Errorf("failed to build location graph: %w", err)
	}
	a.model = world.NewModel(doc)
	charger, err := a.model.Charger()
	if err != nil {
		logger.Warn("World has no charger, using the configured one.", "charger", fallback)
		charger = fallback
	}

	out := shell.NewSyncWriter(outW)
	reporters := []notifier.Reporter{notifier.NewWriterReporter(out)}
	if t := settings.Telemetry; t != nil {
		sio, err := notifier.DialSocketIO(ctx, notifier.SocketIOConfig{
			URL:       t.URL,
			Namespace: t.Namespace,
			Event:     t.Event,

			InsecureSkipVerify: t.InsecureSkipVerify,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect telemetry: %w", err)
		}
		reporters = append(reporters, sio)
		a.telemetry = sio
	}

	a.notifier = notifier.New(a.graph, settings.ReportInterval, a.metrics, reporters...)
	a.rover = rover.New(charger, a.notifier)
	travel := pathfinder.NewTraveler(a.graph, a.rover, settings.StepDelay, a.metrics)

	a.scheduler = scheduler.New(func(t *task.Task, err error) {
		a.shell.OnTaskDone(t, err)
	}, a.metrics)
	a.shell = shell.New(out, shell.Options{
		Queue:    a.scheduler,
		Operator: rover.NewOperator(travel, a.model, store, out),
		Model:    a.model,
		Places:   a.graph,
		Rover:    a.rover,
		Charger:  charger,
	})

	logger.Debug("Controller wired.", "nodes", a.graph.Len(), "charger", charger)
	return a, nil
}

// Settings returns the effective controller configuration.
func (a *App) Settings() *config.Config {
	return a.settings
}

// Rover returns the rover. This is primarily for testing.
func (a *App) Rover() *rover.Rover {
	return a.rover
}
