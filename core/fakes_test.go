package core

import (
	"context"
	"sync/atomic"

	"github.com/signalsfoundry/astromap/model"
)

// fakeEphemeris serves fixed ecliptic positions and counts calls. Obliquity
// zero keeps ecliptic and equatorial frames identical, so expected values in
// tests stay readable.
type fakeEphemeris struct {
	longitudes map[model.Body]float64
	latitudes  map[model.Body]float64
	obliquity  float64

	positionCalls atomic.Int64
	err           error
}

func newFakeEphemeris() *fakeEphemeris {
	return &fakeEphemeris{
		longitudes: map[model.Body]float64{
			model.Sun:  280.5,
			model.Moon: 123.25,
			model.Mars: 45.0,
		},
	}
}

func (f *fakeEphemeris) Position(ctx context.Context, jd float64, body model.Body, method model.Method) (model.PlanetaryPosition, error) {
	f.positionCalls.Add(1)
	if f.err != nil {
		return model.PlanetaryPosition{}, f.err
	}
	if err := ctx.Err(); err != nil {
		return model.PlanetaryPosition{}, err
	}

	lon := f.longitudes[body]
	lat := f.latitudes[body]
	ra, dec, err := EclipticToEquatorial(lon, lat, f.obliquity)
	if err != nil {
		return model.PlanetaryPosition{}, err
	}
	return model.PlanetaryPosition{
		EclipticLongitude: lon,
		EclipticLatitude:  lat,
		RightAscension:    ra,
		Declination:       dec,
		SpeedLongitude:    1,
	}, nil
}

func (f *fakeEphemeris) Obliquity(jd float64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.obliquity, nil
}

// fakeHouses models a zero-obliquity sky: the Midheaven's ecliptic longitude
// equals the local sidereal time and the ascendant trails it by 90°.
type fakeHouses struct {
	anglesCalls atomic.Int64
	cuspsCalls  atomic.Int64
	err         error
}

func (f *fakeHouses) anglesAt(jd, lon float64) (ChartAngles, error) {
	gst, err := GreenwichSiderealTime(jd)
	if err != nil {
		return ChartAngles{}, err
	}
	armc := norm360Test(gst + lon)
	return ChartAngles{
		ARMC: armc,
		MC:   armc,
		IC:   norm360Test(armc + 180),
		ASC:  norm360Test(armc + 90),
		DESC: norm360Test(armc + 270),
	}, nil
}

func (f *fakeHouses) Angles(ctx context.Context, jd, lat, lon float64) (ChartAngles, error) {
	f.anglesCalls.Add(1)
	if f.err != nil {
		return ChartAngles{}, f.err
	}
	return f.anglesAt(jd, lon)
}

func (f *fakeHouses) Cusps(ctx context.Context, jd, lat, lon float64) (ChartAngles, []float64, error) {
	f.cuspsCalls.Add(1)
	if f.err != nil {
		return ChartAngles{}, nil, f.err
	}
	angles, err := f.anglesAt(jd, lon)
	if err != nil {
		return ChartAngles{}, nil, err
	}
	cusps := make([]float64, 12)
	for i := range cusps {
		cusps[i] = norm360Test(angles.ASC + float64(i)*30)
	}
	return angles, cusps, nil
}

const testJD = 2451545.0

func newTestCalculator(t interface {
	Helper()
	Fatalf(string, ...any)
}, cfg Config, eph EphemerisPort, hs HouseSystemPort) *Calculator {
	t.Helper()
	if eph == nil {
		eph = newFakeEphemeris()
	}
	if hs == nil {
		hs = &fakeHouses{}
	}
	calc, err := New(testJD, eph, hs, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return calc
}
