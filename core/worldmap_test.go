package core

import (
	"context"
	"errors"
	"testing"

	"github.com/signalsfoundry/astromap/model"
)

func TestWorldMapComputesAllRequestedLines(t *testing.T) {
	calc := newTestCalculator(t, DefaultConfig(), nil, nil)

	req := WorldMapRequest{
		Bodies:         []model.Body{model.Sun, model.Moon, model.Mars},
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	}
	result, err := calc.WorldMap(context.Background(), req)
	if err != nil {
		t.Fatalf("WorldMap: %v", err)
	}
	if result.Incomplete {
		t.Fatal("uncancelled request marked incomplete")
	}
	if result.ID == "" {
		t.Error("missing result ID")
	}

	for _, body := range req.Bodies {
		for _, angle := range req.LineTypes {
			key := model.LineKey{Body: body, Angle: angle}
			line, ok := result.Lines[key]
			if !ok {
				t.Fatalf("missing line %v", key)
			}
			if line.Body != body || line.LineType != angle {
				t.Fatalf("line %v mislabeled as %v/%v", key, line.Body, line.LineType)
			}
		}
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected per-line errors: %v", result.Errors)
	}
}

func TestWorldMapSubsetOfLineTypes(t *testing.T) {
	calc := newTestCalculator(t, DefaultConfig(), nil, nil)

	result, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies:         []model.Body{model.Sun},
		LineTypes:      []model.Angle{model.AngleMC},
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	})
	if err != nil {
		t.Fatalf("WorldMap: %v", err)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("got %d lines, want only the requested MC", len(result.Lines))
	}
	if _, ok := result.Lines[model.LineKey{Body: model.Sun, Angle: model.AngleMC}]; !ok {
		t.Fatal("missing sun MC line")
	}
}

func TestWorldMapValidation(t *testing.T) {
	calc := newTestCalculator(t, DefaultConfig(), nil, nil)
	ctx := context.Background()

	if _, err := calc.WorldMap(ctx, WorldMapRequest{
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no bodies: err = %v, want ErrInvalidInput", err)
	}

	if _, err := calc.WorldMap(ctx, WorldMapRequest{
		Bodies:         []model.Body{model.Sun},
		LineTypes:      model.Angles,
		LatitudeRange:  model.LatitudeRange{Min: 50, Max: -50},
		LongitudeRange: model.WorldLongitudes(),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted range: err = %v, want ErrInvalidInput", err)
	}
}

func TestWorldMapRejectsBlownBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplingResolution = 0.1
	eph := newFakeEphemeris()
	calc := newTestCalculator(t, cfg, eph, nil)
	baseline := eph.positionCalls.Load()

	_, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies: []model.Body{
			model.Sun, model.Moon, model.Mercury, model.Venus, model.Mars,
			model.Jupiter, model.Saturn, model.Uranus, model.Neptune, model.Pluto,
		},
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
		TargetSeconds:  10,
	})
	if !errors.Is(err, ErrPerformanceBudget) {
		t.Fatalf("err = %v, want ErrPerformanceBudget", err)
	}
	// Pre-flight rejection means no sampling work was started.
	if eph.positionCalls.Load() != baseline {
		t.Error("budget rejection should happen before any ephemeris work")
	}
}

func TestWorldMapCancellationReturnsIncomplete(t *testing.T) {
	calc := newTestCalculator(t, DefaultConfig(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := calc.WorldMap(ctx, WorldMapRequest{
		Bodies:         []model.Body{model.Sun, model.Moon},
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	})
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
	if !result.Incomplete {
		t.Fatal("cancelled result not marked incomplete")
	}
}

func TestWorldMapToleratesPartialFailures(t *testing.T) {
	eph := newFakeEphemeris()
	calc := newTestCalculator(t, DefaultConfig(), eph, nil)

	// Fail the ephemeris after construction: every line then fails, but the
	// request itself still completes with per-line errors.
	eph.err = errors.New("ephemeris offline")

	result, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies:         []model.Body{model.Mercury},
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	})
	if err != nil {
		t.Fatalf("WorldMap: %v", err)
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected per-line errors")
	}
	if len(result.Lines) != 0 {
		t.Fatalf("got %d lines from a failing ephemeris", len(result.Lines))
	}
}

func TestWorldMapSimplification(t *testing.T) {
	calc := newTestCalculator(t, DefaultConfig(), nil, nil)

	full, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies:         []model.Body{model.Sun},
		LineTypes:      []model.Angle{model.AngleMC},
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	})
	if err != nil {
		t.Fatalf("WorldMap: %v", err)
	}
	simplified, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies:          []model.Body{model.Sun},
		LineTypes:       []model.Angle{model.AngleMC},
		LatitudeRange:   model.WorldLatitudes(),
		LongitudeRange:  model.WorldLongitudes(),
		SimplifyEpsilon: 0.1,
	})
	if err != nil {
		t.Fatalf("WorldMap simplified: %v", err)
	}

	key := model.LineKey{Body: model.Sun, Angle: model.AngleMC}
	if len(simplified.Lines[key].Points) >= len(full.Lines[key].Points) {
		t.Errorf("simplification did not reduce a straight MC line: %d vs %d points",
			len(simplified.Lines[key].Points), len(full.Lines[key].Points))
	}
}

func TestWorldMapWorkerLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	calc := newTestCalculator(t, cfg, nil, nil)

	result, err := calc.WorldMap(context.Background(), WorldMapRequest{
		Bodies:         []model.Body{model.Sun, model.Moon},
		LineTypes:      model.Angles,
		LatitudeRange:  model.WorldLatitudes(),
		LongitudeRange: model.WorldLongitudes(),
	})
	if err != nil {
		t.Fatalf("WorldMap: %v", err)
	}
	if len(result.Lines) != 8 {
		t.Fatalf("got %d lines with a single worker, want 8", len(result.Lines))
	}
}
