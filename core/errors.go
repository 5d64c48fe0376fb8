package core

import "errors"

var (
	// ErrInvalidInput is returned by every operation that rejects its
	// arguments before doing any work: unknown bodies, inverted or
	// out-of-bounds ranges, bad configuration values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEphemerisUnavailable is returned by an EphemerisPort asked for a
	// moment outside its supported date range. It is propagated, not retried.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")

	// ErrPerformanceBudget is raised pre-flight by ValidatePerformance when
	// a requested configuration is estimated to exceed its time target.
	// Nothing is sampled after it fires.
	ErrPerformanceBudget = errors.New("performance budget exceeded")

	// ErrIncomplete marks a cancelled multi-line request. The partial result
	// accompanying it is valid as far as it goes but must not be presented
	// as a full world map.
	ErrIncomplete = errors.New("calculation incomplete")
)

// Circumpolar geometry and root-finder non-convergence are deliberately not
// errors: both are expected per-latitude outcomes and are represented by
// omitting the point.
