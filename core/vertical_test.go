package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/astromap/model"
)

func TestMCICPointsOppositeLongitudes(t *testing.T) {
	zenith := model.GeographicPoint{Longitude: 45, Latitude: 12}
	band := model.LatitudeRange{Min: -60, Max: 60}

	mc, ic, err := MCICPoints(context.Background(), zenith, band, 0.5)
	if err != nil {
		t.Fatalf("MCICPoints: %v", err)
	}
	if len(mc) == 0 || len(ic) == 0 {
		t.Fatal("expected non-empty lines")
	}
	if len(mc) != len(ic) {
		t.Fatalf("mc has %d points, ic has %d", len(mc), len(ic))
	}

	for i := range mc {
		diff := math.Abs(wrap180(mc[i].Point.Longitude - ic[i].Point.Longitude))
		if math.Abs(diff-180) > 1e-9 {
			t.Fatalf("point %d: MC lon %v and IC lon %v not 180 apart", i, mc[i].Point.Longitude, ic[i].Point.Longitude)
		}
		if mc[i].Point.Latitude != ic[i].Point.Latitude {
			t.Fatalf("point %d: latitude mismatch %v vs %v", i, mc[i].Point.Latitude, ic[i].Point.Latitude)
		}
	}
}

func TestMCICPointsConstantLongitude(t *testing.T) {
	zenith := model.GeographicPoint{Longitude: -176.5, Latitude: -23}
	mc, _, err := MCICPoints(context.Background(), zenith, model.WorldLatitudes(), 1.0)
	if err != nil {
		t.Fatalf("MCICPoints: %v", err)
	}

	for _, p := range mc {
		if p.Point.Longitude != -176.5 {
			t.Fatalf("MC longitude drifted to %v", p.Point.Longitude)
		}
	}
}

func TestMCICPointsCoverBandBounds(t *testing.T) {
	band := model.LatitudeRange{Min: -66, Max: 66}
	mc, _, err := MCICPoints(context.Background(), model.GeographicPoint{Longitude: 0}, band, 0.7)
	if err != nil {
		t.Fatalf("MCICPoints: %v", err)
	}

	if mc[0].Point.Latitude != -66 {
		t.Errorf("first latitude = %v, want -66", mc[0].Point.Latitude)
	}
	if mc[len(mc)-1].Point.Latitude != 66 {
		t.Errorf("last latitude = %v, want exact upper bound 66", mc[len(mc)-1].Point.Latitude)
	}
}

func TestMCICPointsDeterministic(t *testing.T) {
	zenith := model.GeographicPoint{Longitude: 10, Latitude: 5}
	band := model.WorldLatitudes()
	a, _, _ := MCICPoints(context.Background(), zenith, band, 0.5)
	b, _, _ := MCICPoints(context.Background(), zenith, band, 0.5)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical runs", i)
		}
	}
}

func TestSampleRangeIncludesUpperBound(t *testing.T) {
	samples := sampleRange(0, 1, 0.3)
	last := samples[len(samples)-1]
	if last != 1 {
		t.Fatalf("last sample = %v, want exact bound 1", last)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i] <= samples[i-1] {
			t.Fatalf("samples not strictly increasing at %d", i)
		}
	}
}

func TestMCICPointsStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mc, ic, err := MCICPoints(ctx, model.GeographicPoint{Longitude: 30}, model.WorldLatitudes(), 0.5)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
	if len(mc) != 0 || len(ic) != 0 {
		t.Fatalf("expected no points before first sample, got %d/%d", len(mc), len(ic))
	}
}
