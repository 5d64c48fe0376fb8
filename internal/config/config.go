// Package config loads engine configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/signalsfoundry/astromap/core"
	"github.com/signalsfoundry/astromap/model"
)

// EngineConfig is the on-disk configuration surface.
type EngineConfig struct {
	Engine  EngineSection  `toml:"engine"`
	Logging LoggingSection `toml:"logging"`
	Metrics MetricsSection `toml:"metrics"`
}

// EngineSection configures the calculation engine itself.
type EngineSection struct {
	SamplingResolution float64 `toml:"sampling_resolution"`
	CalculationMethod  string  `toml:"calculation_method"`
	OrbInfluenceKm     float64 `toml:"orb_influence_km"`
	AspectLatitudeStep float64 `toml:"aspect_latitude_step"`
	BracketStrategy    string  `toml:"bracket_strategy"`
	Workers            int     `toml:"workers"`
}

// LoggingSection configures the structured logger.
type LoggingSection struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsSection configures the optional Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() EngineConfig {
	return EngineConfig{
		Engine: EngineSection{
			SamplingResolution: core.DefaultSamplingResolution,
			CalculationMethod:  model.Zodiacal.String(),
			OrbInfluenceKm:     core.DefaultOrbInfluenceKm,
			AspectLatitudeStep: core.DefaultLatitudeStep,
			BracketStrategy:    "hemispheres",
		},
		Logging: LoggingSection{Level: "info", Format: "text"},
		Metrics: MetricsSection{Listen: ":9090"},
	}
}

// Load reads a TOML file (optional, empty path means defaults), then applies
// ASTROMAP_* environment overrides.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return EngineConfig{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *EngineConfig) {
	if v := os.Getenv("ASTROMAP_SAMPLING_RESOLUTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.SamplingResolution = f
		}
	}
	if v := os.Getenv("ASTROMAP_CALCULATION_METHOD"); v != "" {
		cfg.Engine.CalculationMethod = v
	}
	if v := os.Getenv("ASTROMAP_ORB_INFLUENCE_KM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.OrbInfluenceKm = f
		}
	}
	if v := os.Getenv("ASTROMAP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Workers = n
		}
	}
	if v := os.Getenv("ASTROMAP_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// EngineOptions converts the file surface into the engine's validated
// Config.
func (c EngineConfig) EngineOptions() (core.Config, error) {
	method, err := model.ParseMethod(c.Engine.CalculationMethod)
	if err != nil {
		return core.Config{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	var strategy core.BracketStrategy
	switch strings.ToLower(c.Engine.BracketStrategy) {
	case "", "hemispheres":
		strategy = core.BracketHemispheres
	case "scan":
		strategy = core.BracketScan
	default:
		return core.Config{}, fmt.Errorf("%w: bracket strategy %q", core.ErrInvalidInput, c.Engine.BracketStrategy)
	}

	out := core.Config{
		SamplingResolution: c.Engine.SamplingResolution,
		CalculationMethod:  method,
		OrbInfluenceKm:     c.Engine.OrbInfluenceKm,
		AspectLatitudeStep: c.Engine.AspectLatitudeStep,
		BracketStrategy:    strategy,
		Workers:            c.Engine.Workers,
	}
	if err := out.Validate(); err != nil {
		return core.Config{}, err
	}
	return out, nil
}
