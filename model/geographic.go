package model

import (
	"fmt"
	"math"
)

// Geographic bounds in degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// GeographicPoint is a (longitude, latitude) pair in degrees.
// Longitude is in [-180, 180], latitude in [-90, 90].
type GeographicPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NewGeographicPoint validates its bounds and returns the point.
func NewGeographicPoint(longitude, latitude float64) (GeographicPoint, error) {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) ||
		math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return GeographicPoint{}, fmt.Errorf("non-finite coordinates (%v, %v)", longitude, latitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return GeographicPoint{}, fmt.Errorf("longitude %v out of range [%v, %v]", longitude, MinLongitude, MaxLongitude)
	}
	if latitude < MinLatitude || latitude > MaxLatitude {
		return GeographicPoint{}, fmt.Errorf("latitude %v out of range [%v, %v]", latitude, MinLatitude, MaxLatitude)
	}
	return GeographicPoint{Longitude: longitude, Latitude: latitude}, nil
}

// LinePoint is one element of a line's ordered point sequence. A point with
// Break set carries no coordinates; it marks a discontinuity (date-line wrap,
// hemisphere change) so exporters can render multi-segment curves.
type LinePoint struct {
	Point GeographicPoint `json:"point"`
	Break bool            `json:"break,omitempty"`
}

// Break is the sentinel separating segments of a multi-segment line.
func BreakPoint() LinePoint { return LinePoint{Break: true} }

// PointAt wraps a coordinate pair into a LinePoint without validation.
// Callers are expected to have normalized the coordinates already.
func PointAt(longitude, latitude float64) LinePoint {
	return LinePoint{Point: GeographicPoint{Longitude: longitude, Latitude: latitude}}
}

// Segments splits a point sequence at its break sentinels. Sentinels are
// dropped; empty segments are not emitted.
func Segments(points []LinePoint) [][]GeographicPoint {
	var segments [][]GeographicPoint
	var current []GeographicPoint
	for _, p := range points {
		if p.Break {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, p.Point)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// LatitudeRange is an ordered latitude band in degrees.
type LatitudeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks ordering and bounds.
func (r LatitudeRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("non-finite latitude range (%v, %v)", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("latitude range min %v >= max %v", r.Min, r.Max)
	}
	if r.Min < MinLatitude || r.Max > MaxLatitude {
		return fmt.Errorf("latitude range (%v, %v) outside [%v, %v]", r.Min, r.Max, MinLatitude, MaxLatitude)
	}
	return nil
}

// Clamp restricts the range to [min, max], preserving ordering.
func (r LatitudeRange) Clamp(min, max float64) LatitudeRange {
	out := r
	if out.Min < min {
		out.Min = min
	}
	if out.Max > max {
		out.Max = max
	}
	return out
}

// LongitudeRange is an ordered longitude band in degrees.
type LongitudeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks ordering and bounds.
func (r LongitudeRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("non-finite longitude range (%v, %v)", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("longitude range min %v >= max %v", r.Min, r.Max)
	}
	if r.Min < MinLongitude || r.Max > MaxLongitude {
		return fmt.Errorf("longitude range (%v, %v) outside [%v, %v]", r.Min, r.Max, MinLongitude, MaxLongitude)
	}
	return nil
}

// Contains reports whether lon falls inside the range.
func (r LongitudeRange) Contains(lon float64) bool {
	return lon >= r.Min && lon <= r.Max
}

// WorldLatitudes is the full latitude band.
func WorldLatitudes() LatitudeRange { return LatitudeRange{Min: MinLatitude, Max: MaxLatitude} }

// WorldLongitudes is the full longitude band.
func WorldLongitudes() LongitudeRange { return LongitudeRange{Min: MinLongitude, Max: MaxLongitude} }
