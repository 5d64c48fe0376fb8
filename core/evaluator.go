package core

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/astromap/model"
)

// angleFrom extracts one angle's ecliptic longitude from a ChartAngles set.
func angleFrom(angles ChartAngles, angle model.Angle) (float64, error) {
	switch angle {
	case model.AngleASC:
		return angles.ASC, nil
	case model.AngleDESC:
		return angles.DESC, nil
	case model.AngleMC:
		return angles.MC, nil
	case model.AngleIC:
		return angles.IC, nil
	default:
		return 0, fmt.Errorf("%w: angle %v", ErrInvalidInput, angle)
	}
}

// angleOnlyEvaluator is the fast strategy: one cheap Angles call per probe,
// no house-cusp computation at all.
type angleOnlyEvaluator struct {
	hs HouseSystemPort
}

// NewAngleOnlyEvaluator wraps a house port's cheap angle-only call.
func NewAngleOnlyEvaluator(hs HouseSystemPort) AngleEvaluator {
	return angleOnlyEvaluator{hs: hs}
}

func (e angleOnlyEvaluator) AngleLongitude(ctx context.Context, jd, lat, lon float64, angle model.Angle) (float64, error) {
	angles, err := e.hs.Angles(ctx, jd, lat, lon)
	if err != nil {
		return 0, err
	}
	return angleFrom(angles, angle)
}

// fullChartEvaluator is the reference strategy: every probe rebuilds the
// relocated chart the long way, with the complete house-cusp set and fresh
// ephemeris positions for all bodies, then extracts the one angle needed.
// It exists to validate the fast path, not to be fast.
type fullChartEvaluator struct {
	hs  HouseSystemPort
	eph EphemerisPort
}

// NewFullChartEvaluator builds the reference evaluator.
func NewFullChartEvaluator(hs HouseSystemPort, eph EphemerisPort) AngleEvaluator {
	return fullChartEvaluator{hs: hs, eph: eph}
}

func (e fullChartEvaluator) AngleLongitude(ctx context.Context, jd, lat, lon float64, angle model.Angle) (float64, error) {
	angles, _, err := e.hs.Cusps(ctx, jd, lat, lon)
	if err != nil {
		return 0, err
	}
	for _, body := range model.Bodies {
		if _, err := e.eph.Position(ctx, jd, body, model.Zodiacal); err != nil {
			return 0, err
		}
	}
	return angleFrom(angles, angle)
}
