package core

import (
	"context"

	"github.com/signalsfoundry/astromap/model"
)

// EphemerisPort supplies body positions for a moment. Implementations must
// wrap ErrEphemerisUnavailable when the moment falls outside their supported
// date range.
type EphemerisPort interface {
	// Position returns the body's geocentric position at the given Julian
	// date, with both ecliptic and equatorial coordinates populated.
	Position(ctx context.Context, jd float64, body model.Body, method model.Method) (model.PlanetaryPosition, error)

	// Obliquity returns the mean obliquity of the ecliptic in degrees.
	Obliquity(jd float64) (float64, error)
}

// ChartAngles are the chart angles at one geographic location, as ecliptic
// longitudes in degrees. ARMC is the right ascension of the Midheaven, the
// intermediate quantity house-cusp derivation starts from.
type ChartAngles struct {
	ASC  float64
	MC   float64
	ARMC float64
	DESC float64
	IC   float64
}

// HouseSystemPort computes chart angles and house cusps for a relocated
// moment. Implementations degrade near the poles (|lat| above roughly 80°);
// callers treat that as expected geometry, never as fatal.
type HouseSystemPort interface {
	// Angles computes only the chart angles. This is the cheap call.
	Angles(ctx context.Context, jd, latitude, longitude float64) (ChartAngles, error)

	// Cusps computes the full twelve-cusp house set along with the angles.
	// This is the expensive call: per-sample cost is dominated by it.
	Cusps(ctx context.Context, jd, latitude, longitude float64) (ChartAngles, []float64, error)
}
