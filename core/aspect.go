package core

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/signalsfoundry/astromap/model"
)

// Solver defaults. The search tolerance governs bracket narrowing; the
// accept tolerance governs correctness of the final answer and is
// deliberately looser.
const (
	DefaultSearchTolerance = 0.01
	DefaultAcceptTolerance = 1.0
	DefaultLatitudeStep    = 5.0
	DefaultScanStep        = 30.0

	// HouseStableLatitude bounds where house computations stay reliable.
	// Above this the solver clamps its latitude sweep rather than feeding
	// polar geometry to the house port.
	HouseStableLatitude = 66.0

	// evalFailed stands in for an aspect error when the evaluator fails at
	// a probe location. Large enough that no bracket containing only failed
	// probes can pass the accept tolerance.
	evalFailed = 999.0
)

// AngleEvaluator measures the ecliptic longitude of one chart angle for a
// relocated moment. The solver treats it as a black box so the reference
// strategy (full house set) and the fast strategy (single angle from
// ARMC/obliquity) stay interchangeable.
type AngleEvaluator interface {
	AngleLongitude(ctx context.Context, jd, latitude, longitude float64, angle model.Angle) (float64, error)
}

// BracketStrategy selects how the solver partitions the longitude domain
// before ternary search. The aspect-error function is not guaranteed
// unimodal over the full domain, so each bracket is assumed unimodal and
// searched independently. Neither strategy proves unimodality: two minima
// inside one bracket can hide one solution. That is a documented limitation,
// tunable via the strategy and scan step.
type BracketStrategy int

const (
	// BracketHemispheres splits the domain at the prime meridian.
	BracketHemispheres BracketStrategy = iota
	// BracketScan walks a coarse fixed-spacing grid and brackets every
	// local minimum it finds.
	BracketScan
)

// AspectSolver finds, per sampled latitude, the longitudes where a natal
// body's separation from a local chart angle equals a target aspect.
type AspectSolver struct {
	Evaluator       AngleEvaluator
	SearchTolerance float64
	AcceptTolerance float64
	Strategy        BracketStrategy
	ScanStep        float64

	probes     int
	latSamples int
}

// ProbeCount reports how many evaluator probes the solver has issued.
func (s *AspectSolver) ProbeCount() int { return s.probes }

// LatitudeSampleCount reports how many latitudes Solve has swept.
func (s *AspectSolver) LatitudeSampleCount() int { return s.latSamples }

func (s *AspectSolver) searchTolerance() float64 {
	if s.SearchTolerance > 0 {
		return s.SearchTolerance
	}
	return DefaultSearchTolerance
}

func (s *AspectSolver) acceptTolerance() float64 {
	if s.AcceptTolerance > 0 {
		return s.AcceptTolerance
	}
	return DefaultAcceptTolerance
}

func (s *AspectSolver) scanStep() float64 {
	if s.ScanStep > 0 {
		return s.ScanStep
	}
	return DefaultScanStep
}

// aspectError measures how far the separation between the body and the
// angle at (lon, lat) is from the target aspect. Evaluator failures yield
// evalFailed so the surrounding search simply rejects the latitude.
func (s *AspectSolver) aspectError(ctx context.Context, jd, planetLon, lat, lon float64, angle model.Angle, target float64) float64 {
	s.probes++
	angleLon, err := s.Evaluator.AngleLongitude(ctx, jd, lat, lon, angle)
	if err != nil {
		return evalFailed
	}
	actual := separation(planetLon, angleLon)
	e := math.Abs(actual - target)
	if e > 180 {
		e = 360 - e
	}
	return e
}

// SolveLatitude returns the longitudes at one latitude where the aspect is
// exact, in ascending order. Zero, one, or two results are all normal:
// rejection by the accept tolerance omits the point, it never fails.
func (s *AspectSolver) SolveLatitude(ctx context.Context, jd, planetLon, lat float64, angle model.Angle, target float64) []float64 {
	errAt := func(lon float64) float64 {
		return s.aspectError(ctx, jd, planetLon, lat, lon, angle, target)
	}

	var results []float64
	for _, b := range s.brackets(errAt) {
		if lon, ok := s.ternary(b[0], b[1], errAt); ok {
			results = append(results, lon)
		}
	}

	sort.Float64s(results)
	// Brackets can share a minimum on their boundary; keep one of each.
	deduped := results[:0]
	for _, lon := range results {
		if len(deduped) == 0 || lon-deduped[len(deduped)-1] > 1 {
			deduped = append(deduped, lon)
		}
	}
	return deduped
}

// brackets partitions [-180, 180] into intervals assumed unimodal.
func (s *AspectSolver) brackets(errAt func(float64) float64) [][2]float64 {
	if s.Strategy == BracketHemispheres {
		return [][2]float64{{-180, 0}, {0, 180}}
	}

	step := s.scanStep()
	var lons []float64
	var errs []float64
	for lon := -180.0; lon <= 180; lon += step {
		lons = append(lons, lon)
		errs = append(errs, errAt(lon))
	}

	var out [][2]float64
	for i := range lons {
		left := i == 0 || errs[i] <= errs[i-1]
		right := i == len(lons)-1 || errs[i] <= errs[i+1]
		if !left || !right || errs[i] >= evalFailed {
			continue
		}
		lo := math.Max(lons[i]-step, -180)
		hi := math.Min(lons[i]+step, 180)
		out = append(out, [2]float64{lo, hi})
	}
	return out
}

// ternary narrows [lo, hi] by comparing two interior trisection points and
// discarding the sub-interval that cannot hold the minimum, until the
// interval is below the search tolerance. The midpoint is accepted only if
// its re-measured aspect error is below the accept tolerance.
func (s *AspectSolver) ternary(lo, hi float64, errAt func(float64) float64) (float64, bool) {
	tol := s.searchTolerance()
	for hi-lo > tol {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if errAt(m1) < errAt(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	mid := (lo + hi) / 2
	if errAt(mid) < s.acceptTolerance() {
		return mid, true
	}
	return 0, false
}

// Solve sweeps the latitude band and collects the aspect locus. Points are
// grouped into the western and eastern solution branches, each ordered by
// latitude, separated by a break sentinel. Latitudes beyond the house-stable
// band are clamped away rather than evaluated. Cancellation is checked
// between latitude samples; a cancelled sweep returns the partial locus
// wrapped with ErrIncomplete instead of passing it off as complete.
func (s *AspectSolver) Solve(ctx context.Context, jd, planetLon float64, angle model.Angle, target float64, latRange model.LatitudeRange, lonRange model.LongitudeRange, latStep float64) ([]model.LinePoint, error) {
	if latStep <= 0 {
		latStep = DefaultLatitudeStep
	}
	band := latRange.Clamp(-HouseStableLatitude, HouseStableLatitude)
	if band.Min >= band.Max {
		return nil, nil
	}

	var west, east []model.LinePoint
	for _, lat := range sampleRange(band.Min, band.Max, latStep) {
		if err := ctx.Err(); err != nil {
			return joinBranches(west, east), fmt.Errorf("%w: aspect sweep cancelled at latitude %.1f: %v", ErrIncomplete, lat, err)
		}
		s.latSamples++
		for _, lon := range s.SolveLatitude(ctx, jd, planetLon, lat, angle, target) {
			if !lonRange.Contains(lon) {
				continue
			}
			if lon < 0 {
				west = append(west, model.PointAt(lon, lat))
			} else {
				east = append(east, model.PointAt(lon, lat))
			}
		}
	}
	return joinBranches(west, east), nil
}

func joinBranches(west, east []model.LinePoint) []model.LinePoint {
	if len(west) == 0 {
		return east
	}
	if len(east) == 0 {
		return west
	}
	out := make([]model.LinePoint, 0, len(west)+len(east)+1)
	out = append(out, west...)
	out = append(out, model.BreakPoint())
	out = append(out, east...)
	return out
}
