package core

import (
	"math"

	"github.com/signalsfoundry/astromap/model"
)

// localSpaceReachKm is how far the directional line is projected from the
// birth location before handing it to a renderer.
const localSpaceReachKm = 1000.0

// LocalSpaceFrom builds the compass line from a birth location toward a
// body. The direction is the bearing toward the body's geographic sub-point;
// the altitude comes from the standard alt-azimuth relation using the body's
// declination and local hour angle.
func LocalSpaceFrom(body model.Body, birth, zenith model.GeographicPoint, dec float64) model.LocalSpaceLine {
	azimuth := InitialBearing(birth, zenith)
	endpoint := ProjectPoint(birth, azimuth, localSpaceReachKm)

	// Hour angle of the body at the birth location: LST − RA, where the
	// zenith longitude encodes RA − GST.
	ha := (birth.Longitude - zenith.Longitude) * deg2rad
	lat := birth.Latitude * deg2rad
	decRad := dec * deg2rad
	altitude := math.Asin(
		math.Sin(lat)*math.Sin(decRad)+
			math.Cos(lat)*math.Cos(decRad)*math.Cos(ha),
	) * rad2deg

	return model.LocalSpaceLine{
		Body:            body,
		Birth:           birth,
		Endpoint:        endpoint,
		AzimuthDegrees:  azimuth,
		DistanceKm:      HaversineKm(birth, endpoint),
		AltitudeDegrees: altitude,
	}
}
