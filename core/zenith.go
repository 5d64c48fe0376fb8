package core

import (
	"github.com/signalsfoundry/astromap/model"
)

// ZenithFrom derives the geographic sub-point for a body with the given
// equatorial coordinates at the given Greenwich sidereal time. The body is at
// the local zenith where local sidereal time equals its right ascension, so
// longitude = RA − GST; latitude is the declination, clamped to the valid
// band. O(1) and deterministic; MC/IC lines anchor on this point.
func ZenithFrom(ra, dec, gst float64) model.GeographicPoint {
	lat := dec
	if lat > model.MaxLatitude {
		lat = model.MaxLatitude
	} else if lat < model.MinLatitude {
		lat = model.MinLatitude
	}
	return model.GeographicPoint{
		Longitude: NormalizeLongitude(ra - gst),
		Latitude:  lat,
	}
}
