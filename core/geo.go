package core

import (
	"math"

	"github.com/signalsfoundry/astromap/model"
)

// EarthRadiusKm is the mean Earth radius used for all simple geometry
// calculations in the engine (kilometres).
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two geographic
// points in kilometres.
func HaversineKm(a, b model.GeographicPoint) float64 {
	lat1 := a.Latitude * deg2rad
	lat2 := b.Latitude * deg2rad
	dLat := (b.Latitude - a.Latitude) * deg2rad
	dLon := (b.Longitude - a.Longitude) * deg2rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearing returns the forward azimuth from a toward b in degrees
// [0, 360). 0° = north, 90° = east.
func InitialBearing(a, b model.GeographicPoint) float64 {
	lat1 := a.Latitude * deg2rad
	lat2 := b.Latitude * deg2rad
	dLon := (b.Longitude - a.Longitude) * deg2rad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * rad2deg
	return math.Mod(bearing+360, 360)
}

// ProjectPoint follows a great circle from start along the given azimuth for
// distanceKm and returns the endpoint.
func ProjectPoint(start model.GeographicPoint, azimuthDeg, distanceKm float64) model.GeographicPoint {
	angular := distanceKm / EarthRadiusKm
	lat1 := start.Latitude * deg2rad
	lon1 := start.Longitude * deg2rad
	az := azimuthDeg * deg2rad

	lat2 := math.Asin(
		math.Sin(lat1)*math.Cos(angular) +
			math.Cos(lat1)*math.Sin(angular)*math.Cos(az),
	)
	lon2 := lon1 + math.Atan2(
		math.Sin(az)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2),
	)

	return model.GeographicPoint{
		Longitude: NormalizeLongitude(lon2 * rad2deg),
		Latitude:  lat2 * rad2deg,
	}
}
