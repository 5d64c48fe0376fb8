package core

import (
	"fmt"

	"github.com/signalsfoundry/astromap/model"
)

// Per-unit cost coefficients for the pre-flight estimate, in seconds.
// Calibrated against the default sampling resolution, not measured at run
// time: ValidatePerformance is a guard, not a timer.
const (
	baseSecondsPerPlanet = 0.5
	secondsPerLineType   = 0.3
)

// DefaultWorldMapBudgetSeconds is the target a full multi-planet map is
// expected to stay under.
const DefaultWorldMapBudgetSeconds = 10.0

// PerformanceEstimate is the pre-flight cost projection for a request.
type PerformanceEstimate struct {
	EstimatedSeconds   float64 `json:"estimated_seconds"`
	TargetSeconds      float64 `json:"target_seconds"`
	PerformanceRatio   float64 `json:"performance_ratio"`
	PlanetCount        int     `json:"planet_count"`
	LineTypeCount      int     `json:"line_type_count"`
	SamplingResolution float64 `json:"sampling_resolution"`
}

// ValidatePerformance estimates the request cost as proportional to
// planet_count × line_types × 1/resolution and fails before any sampling
// when the estimate exceeds the target.
func (c *Calculator) ValidatePerformance(planetCount int, lineTypes []model.Angle, targetSeconds float64) (PerformanceEstimate, error) {
	if planetCount <= 0 {
		return PerformanceEstimate{}, fmt.Errorf("%w: planet count %d", ErrInvalidInput, planetCount)
	}
	if len(lineTypes) == 0 {
		return PerformanceEstimate{}, fmt.Errorf("%w: no line types requested", ErrInvalidInput)
	}
	for _, lt := range lineTypes {
		if !lt.Valid() {
			return PerformanceEstimate{}, fmt.Errorf("%w: line type %v", ErrInvalidInput, lt)
		}
	}
	if targetSeconds <= 0 {
		targetSeconds = DefaultWorldMapBudgetSeconds
	}

	resolutionFactor := c.cfg.SamplingResolution / DefaultSamplingResolution
	estimated := float64(planetCount) * baseSecondsPerPlanet *
		float64(len(lineTypes)) * secondsPerLineType /
		resolutionFactor

	estimate := PerformanceEstimate{
		EstimatedSeconds:   estimated,
		TargetSeconds:      targetSeconds,
		PerformanceRatio:   estimated / targetSeconds,
		PlanetCount:        planetCount,
		LineTypeCount:      len(lineTypes),
		SamplingResolution: c.cfg.SamplingResolution,
	}
	if estimated > targetSeconds {
		return estimate, fmt.Errorf("%w: estimated %.1fs > target %.1fs", ErrPerformanceBudget, estimated, targetSeconds)
	}
	return estimate, nil
}
