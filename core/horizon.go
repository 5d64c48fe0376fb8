package core

import (
	"context"
	"fmt"
	"math"

	"github.com/signalsfoundry/astromap/model"
)

// horizonStep is the finest sampling used near the curve's extrema. The
// rising/setting curve bends hardest where it turns around, so the tracer
// caps the latitude step at this value regardless of the requested
// resolution.
const horizonStep = 0.5

// acosSlack absorbs float rounding when |cos HA| lands just outside [-1, 1]
// near the turning latitudes.
const acosSlack = 1e-9

type horizonSample struct {
	lon    float64
	lat    float64
	rising bool
}

// HorizonArcs holds the two arcs of the rising/setting curve.
type HorizonArcs struct {
	Asc  []model.LinePoint
	Desc []model.LinePoint
}

// TraceHorizon traces the single continuous curve along which a body with
// the given equatorial coordinates sits on the local horizon, then splits it
// into the ascending (rising) and descending (setting) arcs.
//
// Per sampled latitude φ the hour angle satisfies cos HA = −tan(Dec)·tan(φ).
// Where |cos HA| > 1 the body is circumpolar and the latitude contributes no
// point; that is expected geometry, never an error. Everywhere else two hour
// angles exist, one rising and one setting, giving two longitudes via
// lon = RA + HA − GST.
//
// Cancellation is checked between latitude samples. A cancelled trace
// returns empty arcs wrapped with ErrIncomplete rather than a partial curve,
// since the arc split needs the complete closed curve.
func TraceHorizon(ctx context.Context, ra, dec, gst float64, latRange model.LatitudeRange, resolution float64) (HorizonArcs, error) {
	step := resolution
	if step > horizonStep {
		step = horizonStep
	}

	tanDec := math.Tan(dec * deg2rad)

	var rising, setting []horizonSample
	for _, lat := range sampleRange(latRange.Min, latRange.Max, step) {
		if err := ctx.Err(); err != nil {
			return HorizonArcs{}, fmt.Errorf("%w: horizon trace cancelled at latitude %.1f: %v", ErrIncomplete, lat, err)
		}
		cosHA := -tanDec * math.Tan(lat*deg2rad)
		if !finite(cosHA) || math.Abs(cosHA) > 1+acosSlack {
			continue
		}
		if cosHA > 1 {
			cosHA = 1
		} else if cosHA < -1 {
			cosHA = -1
		}
		ha := math.Acos(cosHA) * rad2deg

		rising = append(rising, horizonSample{
			lon:    NormalizeLongitude(ra - ha - gst),
			lat:    lat,
			rising: true,
		})
		setting = append(setting, horizonSample{
			lon: NormalizeLongitude(ra + ha - gst),
			lat: lat,
		})
	}

	// One continuous closed curve: up the rising branch, back down the
	// setting branch.
	curve := make([]horizonSample, 0, len(rising)+len(setting))
	curve = append(curve, rising...)
	for i := len(setting) - 1; i >= 0; i-- {
		curve = append(curve, setting[i])
	}
	if len(curve) < 2 {
		// No crossing in this band; callers treat empty arcs as such.
		return HorizonArcs{}, nil
	}

	iMin, iMax := 0, 0
	for i, s := range curve {
		if s.lat < curve[iMin].lat {
			iMin = i
		}
		if s.lat > curve[iMax].lat {
			iMax = i
		}
	}

	arcA := sliceWrapped(curve, iMin, iMax)
	arcB := sliceWrapped(curve, iMax, iMin)

	// Label the arcs by which branch dominates each. The split assumes a
	// single latitude maximum and minimum on the curve; unusual
	// declination/band combinations can produce a degenerate arc, which is
	// preserved as-is rather than reshaped.
	if countRising(arcA) >= countRising(arcB) {
		return HorizonArcs{Asc: toLinePoints(arcA), Desc: toLinePoints(arcB)}, nil
	}
	return HorizonArcs{Asc: toLinePoints(arcB), Desc: toLinePoints(arcA)}, nil
}

// sliceWrapped returns curve[from..to] inclusive. When to precedes from the
// arc wraps around the end of the sequence, so tail and head are
// concatenated rather than truncated.
func sliceWrapped(curve []horizonSample, from, to int) []horizonSample {
	if from <= to {
		out := make([]horizonSample, to-from+1)
		copy(out, curve[from:to+1])
		return out
	}
	out := make([]horizonSample, 0, len(curve)-from+to+1)
	out = append(out, curve[from:]...)
	out = append(out, curve[:to+1]...)
	return out
}

func countRising(arc []horizonSample) int {
	n := 0
	for _, s := range arc {
		if s.rising {
			n++
		}
	}
	return n
}

// toLinePoints converts an arc to line points, inserting a break sentinel
// wherever consecutive points jump across the date line so exporters can
// render the arc as separate segments.
func toLinePoints(arc []horizonSample) []model.LinePoint {
	points := make([]model.LinePoint, 0, len(arc))
	for i, s := range arc {
		if i > 0 && math.Abs(s.lon-arc[i-1].lon) > 180 {
			points = append(points, model.BreakPoint())
		}
		points = append(points, model.PointAt(s.lon, s.lat))
	}
	return points
}
