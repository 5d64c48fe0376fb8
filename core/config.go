package core

import (
	"fmt"

	"github.com/signalsfoundry/astromap/model"
)

// Configuration bounds, all validated at entry.
const (
	MinSamplingResolution     = 0.1
	MaxSamplingResolution     = 5.0
	DefaultSamplingResolution = 0.5

	MinOrbInfluenceKm     = 50.0
	MaxOrbInfluenceKm     = 500.0
	DefaultOrbInfluenceKm = 150.0

	MinAspectLatitudeStep = 1.0
	MaxAspectLatitudeStep = 5.0
)

// Config carries the calculator's sampling and method settings. It is fixed
// at construction; a calculator never mutates its configuration.
type Config struct {
	// SamplingResolution is the degree interval for geographic sampling,
	// in [0.1, 5.0].
	SamplingResolution float64
	// CalculationMethod selects zodiacal or mundo projection.
	CalculationMethod model.Method
	// OrbInfluenceKm is the orb of influence attached to generated lines,
	// in [50, 500] km.
	OrbInfluenceKm float64
	// AspectLatitudeStep is the aspect sweep's latitude step in [1, 5]°.
	AspectLatitudeStep float64
	// BracketStrategy selects the aspect solver's domain partitioning.
	BracketStrategy BracketStrategy
	// Workers bounds world-map parallelism; zero means one worker per
	// requested line.
	Workers int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SamplingResolution: DefaultSamplingResolution,
		CalculationMethod:  model.Zodiacal,
		OrbInfluenceKm:     DefaultOrbInfluenceKm,
		AspectLatitudeStep: DefaultLatitudeStep,
		BracketStrategy:    BracketHemispheres,
	}
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	if c.SamplingResolution < MinSamplingResolution || c.SamplingResolution > MaxSamplingResolution {
		return fmt.Errorf("%w: sampling resolution %v outside [%v, %v]",
			ErrInvalidInput, c.SamplingResolution, MinSamplingResolution, MaxSamplingResolution)
	}
	if !c.CalculationMethod.Valid() {
		return fmt.Errorf("%w: calculation method %v", ErrInvalidInput, c.CalculationMethod)
	}
	if c.OrbInfluenceKm < MinOrbInfluenceKm || c.OrbInfluenceKm > MaxOrbInfluenceKm {
		return fmt.Errorf("%w: orb influence %v km outside [%v, %v]",
			ErrInvalidInput, c.OrbInfluenceKm, MinOrbInfluenceKm, MaxOrbInfluenceKm)
	}
	if c.AspectLatitudeStep != 0 &&
		(c.AspectLatitudeStep < MinAspectLatitudeStep || c.AspectLatitudeStep > MaxAspectLatitudeStep) {
		return fmt.Errorf("%w: aspect latitude step %v outside [%v, %v]",
			ErrInvalidInput, c.AspectLatitudeStep, MinAspectLatitudeStep, MaxAspectLatitudeStep)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidInput, c.Workers)
	}
	return nil
}
