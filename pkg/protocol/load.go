package protocol

import (
	"fmt"
	"os"
	"time"

	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults returns a configuration that runs the synthetic source with the
// stock classifier parameters.
func Defaults() Config {
	return Config{
		Version: "1",
		Vehicle: VehicleConfig{Name: "multirotor"},
		Loop: LoopConfig{
			RateHz:          consts.DefaultLoopRateHz,
			WarmupDelay:     consts.DefaultWarmupDelay.String(),
			FailsafeTimeout: consts.DefaultFailsafeTimeout.String(),
		},
		Placement: PlacementConfig{
			Window:    consts.DefaultPlacementWindow,
			TripCount: consts.DefaultPlacementTrip,
			Threshold: consts.DefaultPlacementThreshold,
		},
		Source: SourceConfig{Kind: SourceSynthetic, Noise: 0.2, Seed: 1},
		Telemetry: TelemetryConfig{
			Enabled:    true,
			SocketPath: consts.DefaultSocketPath,
			Timeout:    consts.DefaultTelemetryTimeout.String(),
		},
		Export: ExportConfig{
			UnitID:   1,
			Interval: consts.DefaultExportInterval.String(),
			Timeout:  consts.DefaultExportTimeout.String(),
		},
		Observability: ObservabilityConfig{
			MetricsPort: consts.DefaultMetricsPort,
			LogLevel:    "info",
		},
	}
}

// Load reads path, overlays it onto Defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfigRead, "LoadConfig", "cannot read "+path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "LoadConfig", "cannot parse "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the controller cannot run with.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeConfigInvalid, "Validate", fmt.Sprintf(format, args...), nil)
	}

	if c.Loop.RateHz <= 0 {
		return invalid("loop.rate_hz must be positive, got %d", c.Loop.RateHz)
	}
	if c.Placement.Window <= 0 {
		return invalid("placement.window must be positive, got %d", c.Placement.Window)
	}
	if c.Placement.TripCount < 0 || c.Placement.TripCount >= c.Placement.Window {
		return invalid("placement.trip_count must be in [0, window), got %d", c.Placement.TripCount)
	}
	if c.Placement.Threshold < 0 {
		return invalid("placement.threshold must not be negative, got %v", c.Placement.Threshold)
	}

	switch c.Source.Kind {
	case SourceSynthetic:
	case SourceCSV:
		if c.Source.Path == "" {
			return invalid("source.path is required for csv sources")
		}
	default:
		return invalid("unknown source.kind %q", c.Source.Kind)
	}

	if c.Telemetry.Enabled && c.Telemetry.SocketPath == "" {
		return invalid("telemetry.socket_path is required when telemetry is enabled")
	}
	if c.Export.Enabled && c.Export.Endpoint == "" {
		return invalid("export.endpoint is required when export is enabled")
	}

	for name, v := range map[string]string{
		"loop.warmup_delay":     c.Loop.WarmupDelay,
		"loop.failsafe_timeout": c.Loop.FailsafeTimeout,
		"telemetry.timeout":     c.Telemetry.Timeout,
		"export.interval":       c.Export.Interval,
		"export.timeout":        c.Export.Timeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return errors.New(errors.ErrCodeConfigInvalid, "Validate", name+" is not a duration", err)
		}
	}
	return nil
}

// Duration parses s, returning def when s is empty or malformed.
func Duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Personal.AI order the ending
