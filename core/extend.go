package core

import (
	"fmt"
	"sort"

	"github.com/signalsfoundry/astromap/model"
)

// ExtendToLatitudeRange linearly extrapolates a partial curve out to a
// target latitude band. Horizon curves routinely stop short of extreme
// latitudes where the geometry gives out; renderers that want full-band
// coverage get the missing ends filled in from the slope of the nearest two
// points. At least two non-break points are required.
func ExtendToLatitudeRange(points []model.LinePoint, target model.LatitudeRange) ([]model.LinePoint, error) {
	coords := flattenPoints(points)
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points to extrapolate, have %d", ErrInvalidInput, len(coords))
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sorted := make([]model.GeographicPoint, len(coords))
	copy(sorted, coords)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Latitude < sorted[j].Latitude })

	out := make([]model.LinePoint, 0, len(sorted)+2)
	if target.Min < sorted[0].Latitude {
		if low := extrapolate(sorted[1], sorted[0], target.Min); low != nil {
			out = append(out, *low)
		}
	}
	for _, p := range sorted {
		out = append(out, model.LinePoint{Point: p})
	}
	last := len(sorted) - 1
	if target.Max > sorted[last].Latitude {
		if high := extrapolate(sorted[last-1], sorted[last], target.Max); high != nil {
			out = append(out, *high)
		}
	}
	return out, nil
}

// extrapolate continues the from→edge slope out to targetLat. A flat slope
// (both points at one latitude) cannot be extended and yields nil.
func extrapolate(from, edge model.GeographicPoint, targetLat float64) *model.LinePoint {
	dLat := edge.Latitude - from.Latitude
	if dLat == 0 {
		return nil
	}
	slope := (edge.Longitude - from.Longitude) / dLat
	lon := NormalizeLongitude(edge.Longitude + slope*(targetLat-edge.Latitude))
	p := model.PointAt(lon, targetLat)
	return &p
}

func flattenPoints(points []model.LinePoint) []model.GeographicPoint {
	var out []model.GeographicPoint
	for _, p := range points {
		if !p.Break {
			out = append(out, p.Point)
		}
	}
	return out
}
