package core

import (
	"fmt"
	"math"

	satellite "github.com/joshuaferrara/go-satellite"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// EclipticToEquatorial converts ecliptic longitude/latitude to right
// ascension and declination, all in degrees. Right ascension is returned in
// [0, 360). It fails only on non-finite input.
func EclipticToEquatorial(lon, lat, obliquity float64) (ra, dec float64, err error) {
	if !finite(lon) || !finite(lat) || !finite(obliquity) {
		return 0, 0, fmt.Errorf("%w: non-finite ecliptic coordinates (%v, %v, %v)", ErrInvalidInput, lon, lat, obliquity)
	}

	lonRad := lon * deg2rad
	latRad := lat * deg2rad
	oblRad := obliquity * deg2rad

	raRad := math.Atan2(
		math.Sin(lonRad)*math.Cos(oblRad)-math.Tan(latRad)*math.Sin(oblRad),
		math.Cos(lonRad),
	)
	decRad := math.Asin(
		math.Sin(latRad)*math.Cos(oblRad) +
			math.Cos(latRad)*math.Sin(oblRad)*math.Sin(lonRad),
	)

	ra = raRad * rad2deg
	if ra < 0 {
		ra += 360
	}
	return ra, decRad * rad2deg, nil
}

// EquatorialToEcliptic is the inverse transform: right ascension and
// declination to ecliptic longitude/latitude, all in degrees. Longitude is
// returned in [0, 360).
func EquatorialToEcliptic(ra, dec, obliquity float64) (lon, lat float64, err error) {
	if !finite(ra) || !finite(dec) || !finite(obliquity) {
		return 0, 0, fmt.Errorf("%w: non-finite equatorial coordinates (%v, %v, %v)", ErrInvalidInput, ra, dec, obliquity)
	}

	raRad := ra * deg2rad
	decRad := dec * deg2rad
	oblRad := obliquity * deg2rad

	lonRad := math.Atan2(
		math.Sin(raRad)*math.Cos(oblRad)+math.Tan(decRad)*math.Sin(oblRad),
		math.Cos(raRad),
	)
	latRad := math.Asin(
		math.Sin(decRad)*math.Cos(oblRad) -
			math.Cos(decRad)*math.Sin(oblRad)*math.Sin(raRad),
	)

	lon = lonRad * rad2deg
	if lon < 0 {
		lon += 360
	}
	return lon, latRad * rad2deg, nil
}

// GreenwichSiderealTime returns Greenwich mean sidereal time in degrees
// [0, 360) for a Julian date.
func GreenwichSiderealTime(jd float64) (float64, error) {
	if !finite(jd) {
		return 0, fmt.Errorf("%w: non-finite julian date %v", ErrInvalidInput, jd)
	}
	gst := satellite.ThetaG_JD(jd) * rad2deg
	gst = math.Mod(gst, 360)
	if gst < 0 {
		gst += 360
	}
	return gst, nil
}

// NormalizeLongitude wraps a longitude into (-180, 180].
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	return lon
}

// wrap180 maps an angular difference into (-180, 180].
func wrap180(deg float64) float64 {
	return NormalizeLongitude(deg)
}

// separation returns the unsigned angular separation of two ecliptic
// longitudes, in [0, 180].
func separation(lon1, lon2 float64) float64 {
	return math.Abs(wrap180(lon1 - lon2))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
