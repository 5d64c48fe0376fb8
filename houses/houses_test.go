package houses

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/astromap/core"
	"github.com/signalsfoundry/astromap/model"
)

const testJD = 2451545.0

// stubEphemeris supplies a fixed obliquity; Position is unused here.
type stubEphemeris struct {
	obliquity float64
	err       error
}

func (s *stubEphemeris) Position(context.Context, float64, model.Body, model.Method) (model.PlanetaryPosition, error) {
	return model.PlanetaryPosition{}, errors.New("not used")
}

func (s *stubEphemeris) Obliquity(float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.obliquity, nil
}

func TestAnglesFromARMCKnownValues(t *testing.T) {
	const obliquity = 23.439291

	// At ARMC 0 the Midheaven is the vernal point. On the equator the
	// ascendant is a quarter turn east of it in right ascension; with
	// ARMC 90 both angles land exactly on ecliptic cardinal points.
	a := anglesFromARMC(0, 0, obliquity)
	if math.Abs(a.MC) > 1e-9 && math.Abs(a.MC-360) > 1e-9 {
		t.Errorf("ARMC 0: MC = %v, want 0", a.MC)
	}
	if math.Abs(a.ASC-90) > 1e-9 {
		t.Errorf("ARMC 0: ASC = %v, want 90", a.ASC)
	}

	a = anglesFromARMC(90, 0, obliquity)
	if math.Abs(a.MC-90) > 1e-9 {
		t.Errorf("ARMC 90: MC = %v, want 90", a.MC)
	}
	if math.Abs(a.ASC-180) > 1e-9 {
		t.Errorf("ARMC 90: ASC = %v, want 180", a.ASC)
	}
}

func TestAnglesOppositionAndEasternHalf(t *testing.T) {
	const obliquity = 23.439291
	for armc := 0.0; armc < 360; armc += 17 {
		for _, lat := range []float64{-60, -30, 0, 30, 60, 75} {
			a := anglesFromARMC(armc, lat, obliquity)

			if d := math.Abs(wrap180(a.DESC - a.ASC - 180)); d > 1e-9 {
				t.Fatalf("armc %v lat %v: DESC not opposite ASC (off %v)", armc, lat, d)
			}
			if d := math.Abs(wrap180(a.IC - a.MC - 180)); d > 1e-9 {
				t.Fatalf("armc %v lat %v: IC not opposite MC (off %v)", armc, lat, d)
			}
			// The ascendant occupies the half-chart after the Midheaven.
			if d := norm360(a.ASC - a.MC); d >= 180 {
				t.Fatalf("armc %v lat %v: ASC %v not east of MC %v", armc, lat, a.ASC, a.MC)
			}
		}
	}
}

func TestAnglesRejectsBadLocation(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.44})
	cases := []struct{ lat, lon float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, tc := range cases {
		if _, err := p.Angles(context.Background(), testJD, tc.lat, tc.lon); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("(%v, %v): err = %v, want ErrInvalidInput", tc.lat, tc.lon, err)
		}
	}
}

func TestAnglesPropagatesEphemerisError(t *testing.T) {
	boom := errors.New("obliquity boom")
	p := New(&stubEphemeris{err: boom})
	if _, err := p.Angles(context.Background(), testJD, 48.85, 2.35); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestCuspsEquatorTrisectsEvenly(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.439291})

	// On the equator every semi-arc is exactly 90°, so Placidus collapses
	// to equal divisions of right ascension. Check the intermediate cusps
	// straddle their neighbours in zodiacal order.
	angles, cusps, err := p.Cusps(context.Background(), testJD, 0, 2.35)
	if err != nil {
		t.Fatalf("Cusps: %v", err)
	}
	if len(cusps) != 12 {
		t.Fatalf("got %d cusps, want 12", len(cusps))
	}
	if cusps[0] != angles.ASC || cusps[9] != angles.MC {
		t.Fatalf("cusp 1/10 do not match angles: %v %v vs %+v", cusps[0], cusps[9], angles)
	}
	for i := 0; i < 12; i++ {
		gap := norm360(cusps[(i+1)%12] - cusps[i])
		if gap <= 0 || gap >= 120 {
			t.Errorf("cusp %d -> %d gap %v outside (0, 120)", i+1, (i+1)%12+1, gap)
		}
	}
}

func TestCuspsOppositePairs(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.439291})
	_, cusps, err := p.Cusps(context.Background(), testJD, 51.5, -0.13)
	if err != nil {
		t.Fatalf("Cusps: %v", err)
	}
	for i := 0; i < 6; i++ {
		if d := math.Abs(wrap180(cusps[i+6] - cusps[i] - 180)); d > 1e-9 {
			t.Errorf("cusp %d and %d not opposite (off %v)", i+1, i+7, d)
		}
	}
}

func TestCuspsMonotonicMidLatitudes(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.439291})
	for _, lat := range []float64{-55, -35, 0, 35, 55} {
		for lon := -150.0; lon <= 150; lon += 60 {
			_, cusps, err := p.Cusps(context.Background(), testJD, lat, lon)
			if err != nil {
				t.Fatalf("lat %v lon %v: %v", lat, lon, err)
			}
			// Successive cusps advance in zodiacal order around the circle.
			total := 0.0
			for i := 0; i < 12; i++ {
				gap := norm360(cusps[(i+1)%12] - cusps[i])
				if gap <= 0 {
					t.Fatalf("lat %v lon %v: cusps %d -> %d not advancing", lat, lon, i+1, (i+1)%12+1)
				}
				total += gap
			}
			if math.Abs(total-360) > 1e-6 {
				t.Fatalf("lat %v lon %v: cusp gaps sum to %v", lat, lon, total)
			}
		}
	}
}

func TestCuspsRejectsPolarLatitudes(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.439291})
	for _, lat := range []float64{PolarLimit, -PolarLimit, 85, -89.9} {
		_, _, err := p.Cusps(context.Background(), testJD, lat, 0)
		if !errors.Is(err, ErrPolarRegion) {
			t.Errorf("lat %v: err = %v, want ErrPolarRegion", lat, err)
		}
	}
}

func TestCuspsHonorsCancellation(t *testing.T) {
	p := New(&stubEphemeris{obliquity: 23.439291})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := p.Cusps(ctx, testJD, 40, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
