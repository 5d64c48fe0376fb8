package core

import (
	"math"

	"github.com/signalsfoundry/astromap/model"
)

// Simplify reduces a polyline with the Douglas-Peucker algorithm. Epsilon is
// the maximum perpendicular deviation, in degrees, a dropped point may have
// had from the simplified line. Break-delimited segments are simplified
// independently and their sentinels kept, first and last points of every
// segment are preserved, and the result never has more points than the
// input. Export/plotting paths only; calculation never calls this.
func Simplify(points []model.LinePoint, epsilon float64) []model.LinePoint {
	if epsilon <= 0 || len(points) <= 2 {
		out := make([]model.LinePoint, len(points))
		copy(out, points)
		return out
	}

	var out []model.LinePoint
	for i, segment := range model.Segments(points) {
		if i > 0 {
			out = append(out, model.BreakPoint())
		}
		for _, p := range douglasPeucker(segment, epsilon) {
			out = append(out, model.LinePoint{Point: p})
		}
	}
	return out
}

func douglasPeucker(segment []model.GeographicPoint, epsilon float64) []model.GeographicPoint {
	if len(segment) <= 2 {
		return segment
	}

	first, last := segment[0], segment[len(segment)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(segment)-1; i++ {
		d := perpendicularDistance(segment[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []model.GeographicPoint{first, last}
	}

	left := douglasPeucker(segment[:maxIdx+1], epsilon)
	right := douglasPeucker(segment[maxIdx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// perpendicularDistance is the planar point-to-segment distance in degree
// space. Planar is good enough here: lines are simplified for map rendering,
// not measured.
func perpendicularDistance(p, a, b model.GeographicPoint) float64 {
	dx := b.Longitude - a.Longitude
	dy := b.Latitude - a.Latitude
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		px := p.Longitude - a.Longitude
		py := p.Latitude - a.Latitude
		return math.Sqrt(px*px + py*py)
	}
	num := math.Abs(dy*p.Longitude - dx*p.Latitude + b.Longitude*a.Latitude - b.Latitude*a.Longitude)
	return num / math.Sqrt(lenSq)
}
