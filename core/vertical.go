package core

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/astromap/model"
)

// MCICPoints generates the constant-longitude MC and IC point sequences
// through a zenith point. The MC line shares the zenith's longitude; the IC
// line sits 180° opposite. Both sequences sample the latitude range at the
// given resolution with identical latitude ordering. Cancellation is checked
// between latitude samples; a cancelled sweep returns the partial sequences
// wrapped with ErrIncomplete.
func MCICPoints(ctx context.Context, zenith model.GeographicPoint, latRange model.LatitudeRange, resolution float64) (mc, ic []model.LinePoint, err error) {
	mcLon := zenith.Longitude
	icLon := NormalizeLongitude(mcLon + 180)

	lats := sampleRange(latRange.Min, latRange.Max, resolution)
	mc = make([]model.LinePoint, 0, len(lats))
	ic = make([]model.LinePoint, 0, len(lats))
	for _, lat := range lats {
		if err := ctx.Err(); err != nil {
			return mc, ic, fmt.Errorf("%w: meridian sweep cancelled at latitude %.1f: %v", ErrIncomplete, lat, err)
		}
		mc = append(mc, model.PointAt(mcLon, lat))
		ic = append(ic, model.PointAt(icLon, lat))
	}
	return mc, ic, nil
}

// sampleRange returns min, min+step, ... and always includes the exact upper
// bound: uniform stepping routinely undershoots max by a fraction of a step,
// and a line stopping short of the requested band edge is a correctness bug,
// not a rendering nit.
func sampleRange(min, max, step float64) []float64 {
	if step <= 0 || min > max {
		return nil
	}
	var samples []float64
	for v := min; v <= max; v += step {
		samples = append(samples, v)
	}
	if len(samples) == 0 || samples[len(samples)-1] < max {
		samples = append(samples, max)
	}
	return samples
}
