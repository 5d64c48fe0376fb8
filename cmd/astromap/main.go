// Command astromap computes astrocartography lines for a birth moment and
// prints them as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/astromap/core"
	"github.com/signalsfoundry/astromap/ephemeris"
	"github.com/signalsfoundry/astromap/houses"
	"github.com/signalsfoundry/astromap/internal/config"
	"github.com/signalsfoundry/astromap/internal/logging"
	"github.com/signalsfoundry/astromap/internal/observability"
)

var (
	flagConfig   string
	flagDate     string
	flagMethod   string
	flagMetrics  bool
	flagSimplify float64
)

func main() {
	root := &cobra.Command{
		Use:           "astromap",
		Short:         "Astrocartography calculation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	root.PersistentFlags().StringVar(&flagDate, "date", "", "birth moment, RFC 3339 (default: now)")
	root.PersistentFlags().StringVar(&flagMethod, "method", "", "calculation method: zodiacal or mundo")
	root.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "serve Prometheus metrics while running")

	root.AddCommand(worldMapCommand())
	root.AddCommand(zenithCommand())
	root.AddCommand(paranCommand())
	root.AddCommand(aspectCommand())
	root.AddCommand(localSpaceCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// engine bundles everything a subcommand needs.
type engine struct {
	calc *core.Calculator
	log  logging.Logger
	stop func(context.Context) error
}

func buildEngine(ctx context.Context) (*engine, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagMethod != "" {
		cfg.Engine.CalculationMethod = flagMethod
	}
	engineCfg, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	stop, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return nil, err
	}

	var metrics core.MetricsRecorder
	if flagMetrics || cfg.Metrics.Enabled {
		collector, err := observability.NewRecorder(nil)
		if err != nil {
			return nil, err
		}
		metrics = collector
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	moment := time.Now()
	if flagDate != "" {
		moment, err = time.Parse(time.RFC3339, flagDate)
		if err != nil {
			return nil, fmt.Errorf("parse --date: %w", err)
		}
	}
	jd := ephemeris.JulianDay(moment)

	eph := ephemeris.New()
	hs := houses.New(eph)

	opts := []core.Option{core.WithLogger(log)}
	if metrics != nil {
		opts = append(opts, core.WithMetrics(metrics))
	}
	calc, err := core.New(jd, eph, hs, engineCfg, opts...)
	if err != nil {
		return nil, err
	}
	return &engine{calc: calc, log: log, stop: stop}, nil
}

func (e *engine) shutdown(ctx context.Context) {
	observability.ShutdownWithTimeout(ctx, e.stop, e.log)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func worldMapCommand() *cobra.Command {
	var bodiesArg, linesArg string
	var target float64
	cmd := &cobra.Command{
		Use:   "worldmap",
		Short: "Compute planetary lines for a set of bodies across the world map",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.shutdown(ctx)

			bodies, err := parseBodies(bodiesArg)
			if err != nil {
				return err
			}
			angles, err := parseAngles(linesArg)
			if err != nil {
				return err
			}

			result, err := eng.calc.WorldMap(ctx, core.WorldMapRequest{
				Bodies:          bodies,
				LineTypes:       angles,
				LatitudeRange:   worldLat(),
				LongitudeRange:  worldLon(),
				TargetSeconds:   target,
				SimplifyEpsilon: flagSimplify,
			})
			if err != nil {
				return err
			}
			return printJSON(worldMapJSON(result))
		},
	}
	cmd.Flags().StringVar(&bodiesArg, "bodies", "sun,moon,mercury,venus,mars,jupiter,saturn,uranus,neptune,pluto", "comma-separated bodies")
	cmd.Flags().StringVar(&linesArg, "lines", "mc,ic,asc,desc", "comma-separated line types")
	cmd.Flags().Float64Var(&target, "target-seconds", 0, "performance budget in seconds (0 = default)")
	cmd.Flags().Float64Var(&flagSimplify, "simplify", 0, "Douglas-Peucker epsilon in degrees (0 = off)")
	return cmd
}

func zenithCommand() *cobra.Command {
	var bodyArg string
	cmd := &cobra.Command{
		Use:   "zenith",
		Short: "Compute the zenith point of one body",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.shutdown(ctx)

			body, err := parseBody(bodyArg)
			if err != nil {
				return err
			}
			zenith, err := eng.calc.ZenithPoint(ctx, body)
			if err != nil {
				return err
			}
			return printJSON(zenith)
		},
	}
	cmd.Flags().StringVar(&bodyArg, "body", "sun", "body name")
	return cmd
}

func paranCommand() *cobra.Command {
	var primaryArg, secondaryArg string
	var orb float64
	cmd := &cobra.Command{
		Use:   "paran",
		Short: "Find latitude crossings where two body/angle pairs are simultaneously angular",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.shutdown(ctx)

			primary, err := parseLineKey(primaryArg)
			if err != nil {
				return err
			}
			secondary, err := parseLineKey(secondaryArg)
			if err != nil {
				return err
			}
			paran, err := eng.calc.ParanLine(ctx, primary, secondary, orb)
			if err != nil {
				return err
			}
			return printJSON(paran)
		},
	}
	cmd.Flags().StringVar(&primaryArg, "primary", "", "primary pair as body:angle, e.g. sun:mc")
	cmd.Flags().StringVar(&secondaryArg, "secondary", "", "secondary pair as body:angle, e.g. moon:asc")
	cmd.Flags().Float64Var(&orb, "orb", core.DefaultParanOrb, "latitude matching orb in degrees")
	return cmd
}

func aspectCommand() *cobra.Command {
	var bodyArg, angleArg string
	var degrees float64
	cmd := &cobra.Command{
		Use:   "aspect",
		Short: "Solve the locus where a body aspects a relocated chart angle",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.shutdown(ctx)

			body, err := parseBody(bodyArg)
			if err != nil {
				return err
			}
			angle, err := parseAngle(angleArg)
			if err != nil {
				return err
			}
			line, err := eng.calc.AspectLine(ctx, body, angle, degrees, worldLat(), worldLon())
			if err != nil {
				return err
			}
			return printJSON(line)
		},
	}
	cmd.Flags().StringVar(&bodyArg, "body", "sun", "body name")
	cmd.Flags().StringVar(&angleArg, "angle", "asc", "reference angle: mc, ic, asc or desc")
	cmd.Flags().Float64Var(&degrees, "degrees", 120, "aspect in degrees [0, 360)")
	return cmd
}

func localSpaceCommand() *cobra.Command {
	var bodyArg string
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "localspace",
		Short: "Compute the local space compass line from a birth location to a body",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.shutdown(ctx)

			body, err := parseBody(bodyArg)
			if err != nil {
				return err
			}
			line, err := eng.calc.LocalSpaceLine(ctx, body, lon, lat)
			if err != nil {
				return err
			}
			return printJSON(line)
		},
	}
	cmd.Flags().StringVar(&bodyArg, "body", "sun", "body name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "birth latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "birth longitude in degrees")
	return cmd
}
