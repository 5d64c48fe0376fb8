// Package ephemeris provides an analytic planetary ephemeris good to roughly
// an arcminute for the Sun and a few arcminutes for the Moon and planets,
// which is well inside the tolerance of degree-scale geographic sampling.
package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/astromap/core"
	"github.com/signalsfoundry/astromap/model"
)

// Supported Julian date range. The mean-element series degrade outside it,
// so requests beyond the range fail rather than silently drift.
const (
	MinJulianDate = 2415020.0 // 1900-01-01
	MaxJulianDate = 2525008.0 // 2200-02-27
)

// speedStep is the central-difference half-step for daily motion, in days.
const speedStep = 0.01

const deg2rad = math.Pi / 180

// Provider computes geocentric ecliptic positions from closed-form series
// and mean orbital elements. It holds no state and is safe for concurrent
// use.
type Provider struct{}

// New returns an analytic ephemeris provider.
func New() *Provider { return &Provider{} }

// unixEpochJD is the Julian date of 1970-01-01T00:00:00 UTC.
const unixEpochJD = 2440587.5

// JulianDay converts a wall-clock instant to a Julian date. Converting via
// the Unix epoch keeps the result exact across Gregorian century boundaries,
// which calendar-arithmetic formulas valid only through 2100 get wrong.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	return unixEpochJD + (float64(u.Unix())+float64(u.Nanosecond())/1e9)/86400
}

// Obliquity returns the mean obliquity of the ecliptic in degrees.
func (p *Provider) Obliquity(jd float64) (float64, error) {
	if err := checkRange(jd); err != nil {
		return 0, err
	}
	t := centuries(jd)
	return 23.439291 - 0.0130042*t, nil
}

// Position returns the geocentric position of a body. Both calculation
// methods see the same physical position; the method only selects how the
// caller projects it, so it is recorded on the calling side.
func (p *Provider) Position(ctx context.Context, jd float64, body model.Body, method model.Method) (model.PlanetaryPosition, error) {
	if err := ctx.Err(); err != nil {
		return model.PlanetaryPosition{}, err
	}
	if !body.Valid() {
		return model.PlanetaryPosition{}, fmt.Errorf("%w: unknown body %v", core.ErrInvalidInput, body)
	}
	if !method.Valid() {
		return model.PlanetaryPosition{}, fmt.Errorf("%w: unknown method %v", core.ErrInvalidInput, method)
	}
	if err := checkRange(jd); err != nil {
		return model.PlanetaryPosition{}, err
	}

	lon, lat := eclipticAt(jd, body)

	obliquity, err := p.Obliquity(jd)
	if err != nil {
		return model.PlanetaryPosition{}, err
	}
	ra, dec, err := core.EclipticToEquatorial(lon, lat, obliquity)
	if err != nil {
		return model.PlanetaryPosition{}, err
	}

	lonBefore, _ := eclipticAt(jd-speedStep, body)
	lonAfter, _ := eclipticAt(jd+speedStep, body)
	speed := wrap180(lonAfter-lonBefore) / (2 * speedStep)

	return model.PlanetaryPosition{
		EclipticLongitude: lon,
		EclipticLatitude:  lat,
		RightAscension:    ra,
		Declination:       dec,
		SpeedLongitude:    speed,
	}, nil
}

// eclipticAt dispatches to the per-body series. Longitude is in [0, 360),
// latitude in degrees.
func eclipticAt(jd float64, body model.Body) (lon, lat float64) {
	switch body {
	case model.Sun:
		return sunEcliptic(jd)
	case model.Moon:
		return moonEcliptic(jd)
	default:
		return planetEcliptic(jd, body)
	}
}

func checkRange(jd float64) error {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return fmt.Errorf("%w: julian date %v", core.ErrInvalidInput, jd)
	}
	if jd < MinJulianDate || jd > MaxJulianDate {
		return fmt.Errorf("%w: julian date %.1f outside [%.1f, %.1f]",
			core.ErrEphemerisUnavailable, jd, MinJulianDate, MaxJulianDate)
	}
	return nil
}

// centuries returns Julian centuries since J2000.0.
func centuries(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

func norm360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func wrap180(deg float64) float64 {
	d := math.Mod(deg+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

func sinDeg(deg float64) float64 { return math.Sin(deg * deg2rad) }
func cosDeg(deg float64) float64 { return math.Cos(deg * deg2rad) }
