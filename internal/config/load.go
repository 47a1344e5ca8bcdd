package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileRoot mirrors the HCL file layout.
type fileRoot struct {
	WorldFile      *string           `hcl:"world_file"`
	Charger        hcl.Expression    `hcl:"charger,optional"`
	StepDelay      *string           `hcl:"step_delay"`
	ReportInterval *string           `hcl:"report_interval"`
	Persistence    *persistenceBlock `hcl:"persistence,block"`
	Telemetry      *telemetryBlock   `hcl:"telemetry,block"`
	Healthcheck    *healthcheckBlock `hcl:"healthcheck,block"`
}

type persistenceBlock struct {
	RetryInterval *string `hcl:"retry_interval"`
	MaxAttempts   *int    `hcl:"max_attempts"`
}

type telemetryBlock struct {
	URL       string  `hcl:"url"`
	Namespace *string `hcl:"namespace"`
	Event     *string `hcl:"event"`
	Insecure  bool    `hcl:"insecure_skip_verify,optional"`
}

type healthcheckBlock struct {
	Port int `hcl:"port,optional"`
}

// Load reads the file at path. An empty path or a missing file yields
// Default().
func Load(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No config file given, using defaults.")
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Config file not found, using defaults.", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(ctx, src, path)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(ctx context.Context, src []byte, filename string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}

	evalCtx := EvalContext(os.Environ())
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}

	cfg, err := root.translate(evalCtx)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	logger.Debug("Config file loaded.", "path", filename, "world_file", cfg.WorldFile)
	return cfg, nil
}

// EvalContext exposes environ ("KEY=value" pairs) as the env object.
func EvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func (r *fileRoot) translate(evalCtx *hcl.EvalContext) (*Config, error) {
	cfg := Default()
	var err error

	if r.WorldFile != nil {
		if *r.WorldFile == "" {
			return nil, errors.New("world_file must not be empty")
		}
		cfg.WorldFile = *r.WorldFile
	}
	if cfg.Charger, err = decodeCharger(r.Charger, evalCtx); err != nil {
		return nil, err
	}
	if cfg.StepDelay, err = duration("step_delay", r.StepDelay, cfg.StepDelay); err != nil {
		return nil, err
	}
	if cfg.ReportInterval, err = duration("report_interval", r.ReportInterval, cfg.ReportInterval); err != nil {
		return nil, err
	}

	if p := r.Persistence; p != nil {
		if cfg.Persistence.RetryInterval, err = duration("persistence.retry_interval", p.RetryInterval, cfg.Persistence.RetryInterval); err != nil {
			return nil, err
		}
		if cfg.Persistence.RetryInterval == 0 {
			return nil, errors.New("persistence.retry_interval must be positive")
		}
		if p.MaxAttempts != nil {
			if *p.MaxAttempts < 0 {
				return nil, fmt.Errorf("persistence.max_attempts must not be negative, got %d", *p.MaxAttempts)
			}
			cfg.Persistence.MaxAttempts = *p.MaxAttempts
		}
	}

	if t := r.Telemetry; t != nil {
		if t.URL == "" {
			return nil, errors.New("telemetry.url must not be empty")
		}
		cfg.Telemetry = &Telemetry{
			URL:       t.URL,
			Namespace: valueOr(t.Namespace, DefaultNamespace),
			Event:     valueOr(t.Event, DefaultEvent),

			InsecureSkipVerify: t.Insecure,
		}
	}

	if h := r.Healthcheck; h != nil {
		if h.Port < 0 || h.Port > 65535 {
			return nil, fmt.Errorf("healthcheck.port out of range: %d", h.Port)
		}
		cfg.Healthcheck.Port = h.Port
	}
	return cfg, nil
}

func decodeCharger(expr hcl.Expression, evalCtx *hcl.EvalContext) (*geo.Node, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("charger: %w", err)
	}
	var pair []int
	if err := gocty.FromCtyValue(list, &pair); err != nil {
		return nil, fmt.Errorf("charger: %w", err)
	}
	n, err := geo.FromPair(pair)
	if err != nil {
		return nil, fmt.Errorf("charger: %w", err)
	}
	return &n, nil
}

func duration(name string, raw *string, fallback time.Duration) (time.Duration, error) {
	if raw == nil {
		return fallback, nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return d, nil
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
