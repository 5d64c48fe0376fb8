package core

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/astromap/internal/logging"
	"github.com/signalsfoundry/astromap/model"
)

// DefaultZenithPrecisionArcmin is the positional accuracy attached to zenith
// points derived from the low-precision ephemeris path.
const DefaultZenithPrecisionArcmin = 1.0

// MetricsRecorder receives engine-level measurements. A nil recorder is
// valid and drops everything.
type MetricsRecorder interface {
	LineComputed(body, lineType string)
	CacheHit()
	CacheMiss()
	ObserveDuration(op string, seconds float64)
}

// SolverMetricsRecorder extends MetricsRecorder with solver-level
// measurements. A MetricsRecorder that also implements it receives probe and
// comparison counts; the calculator detects the capability at construction.
type SolverMetricsRecorder interface {
	ObserveAspectProbes(n int)
	AddLatitudeSamples(n int)
	AddParanComparisons(n int)
	SetCacheHitRatio(ratio float64)
}

// Calculator owns one birth moment and composes the generators into the
// public operations. It is stateless apart from the additive position cache,
// so independent lines may be computed concurrently.
type Calculator struct {
	jd     float64
	cfg    Config
	eph    EphemerisPort
	houses HouseSystemPort

	fast      AngleEvaluator
	reference AngleEvaluator

	cache         *positionCache
	log           logging.Logger
	metrics       MetricsRecorder
	solverMetrics SolverMetricsRecorder
	tracer        trace.Tracer

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	obliquity float64
	gst       float64
}

// Option adjusts a Calculator at construction.
type Option func(*Calculator)

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Calculator) { c.log = log }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Calculator) { c.metrics = m }
}

// WithEvaluators overrides the aspect solver's fast and reference
// strategies. Both must agree within 0.1° on identical inputs.
func WithEvaluators(fast, reference AngleEvaluator) Option {
	return func(c *Calculator) {
		c.fast = fast
		c.reference = reference
	}
}

// New constructs a calculator for one birth moment. Configuration is
// validated up front, and the ephemeris is probed once so a calculator that
// cannot serve its moment fails at construction rather than mid-request.
func New(jd float64, eph EphemerisPort, hs HouseSystemPort, cfg Config, opts ...Option) (*Calculator, error) {
	if !finite(jd) || jd <= 0 {
		return nil, fmt.Errorf("%w: julian date %v", ErrInvalidInput, jd)
	}
	if eph == nil {
		return nil, fmt.Errorf("%w: nil ephemeris port", ErrInvalidInput)
	}
	if hs == nil {
		return nil, fmt.Errorf("%w: nil house system port", ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		jd:     jd,
		cfg:    cfg,
		eph:    eph,
		houses: hs,
		log:    logging.Noop(),
		tracer: otel.Tracer("astromap/core"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fast == nil {
		c.fast = NewAngleOnlyEvaluator(hs)
	}
	if c.reference == nil {
		c.reference = NewFullChartEvaluator(hs, eph)
	}

	var hits, misses func()
	if c.metrics != nil {
		hits, misses = c.metrics.CacheHit, c.metrics.CacheMiss
		if sm, ok := c.metrics.(SolverMetricsRecorder); ok {
			c.solverMetrics = sm
			baseHits, baseMisses := hits, misses
			hits = func() {
				c.cacheHits.Add(1)
				baseHits()
				c.publishCacheRatio()
			}
			misses = func() {
				c.cacheMisses.Add(1)
				baseMisses()
				c.publishCacheRatio()
			}
		}
	}
	c.cache = newPositionCache(hits, misses)

	obliquity, err := eph.Obliquity(jd)
	if err != nil {
		return nil, fmt.Errorf("probe ephemeris: %w", err)
	}
	gst, err := GreenwichSiderealTime(jd)
	if err != nil {
		return nil, err
	}
	c.obliquity = obliquity
	c.gst = gst

	if _, err := eph.Position(context.Background(), jd, model.Sun, cfg.CalculationMethod); err != nil {
		return nil, fmt.Errorf("probe ephemeris: %w", err)
	}
	return c, nil
}

// JulianDate returns the birth moment the calculator was built for.
func (c *Calculator) JulianDate() float64 { return c.jd }

// Config returns the calculator's immutable configuration.
func (c *Calculator) Config() Config { return c.cfg }

// position fetches a body's cached position.
func (c *Calculator) position(ctx context.Context, body model.Body) (model.PlanetaryPosition, error) {
	return c.cache.position(ctx, c.eph, c.jd, body, c.cfg.CalculationMethod)
}

// raDec resolves the equatorial coordinates the configured method projects
// with. Zodiacal projects the body onto the ecliptic first, so only its
// ecliptic longitude matters; mundo keeps the in-mundo equatorial position
// with ecliptic latitude folded in.
func (c *Calculator) raDec(pos model.PlanetaryPosition) (float64, float64, error) {
	if c.cfg.CalculationMethod == model.Zodiacal {
		return EclipticToEquatorial(pos.EclipticLongitude, 0, c.obliquity)
	}
	return pos.RightAscension, pos.Declination, nil
}

func (c *Calculator) validBody(body model.Body) error {
	if !body.Valid() {
		return fmt.Errorf("%w: unknown body %v", ErrInvalidInput, body)
	}
	return nil
}

func (c *Calculator) observe(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveDuration(op, time.Since(start).Seconds())
	}
}

func (c *Calculator) publishCacheRatio() {
	hits := c.cacheHits.Load()
	total := hits + c.cacheMisses.Load()
	if total == 0 {
		return
	}
	c.solverMetrics.SetCacheHitRatio(float64(hits) / float64(total))
}

// recordSolver flushes one solve's probe and sweep counts.
func (c *Calculator) recordSolver(s *AspectSolver) {
	if c.solverMetrics == nil {
		return
	}
	c.solverMetrics.ObserveAspectProbes(s.ProbeCount())
	c.solverMetrics.AddLatitudeSamples(s.LatitudeSampleCount())
}

// ZenithPoint computes the geographic point directly beneath the body at the
// birth moment.
func (c *Calculator) ZenithPoint(ctx context.Context, body model.Body) (model.ZenithPoint, error) {
	if err := c.validBody(body); err != nil {
		return model.ZenithPoint{}, err
	}
	defer c.observe("zenith_point", time.Now())

	pos, err := c.position(ctx, body)
	if err != nil {
		return model.ZenithPoint{}, err
	}
	ra, dec, err := c.raDec(pos)
	if err != nil {
		return model.ZenithPoint{}, err
	}
	return model.ZenithPoint{
		Body:              body,
		Point:             ZenithFrom(ra, dec, c.gst),
		Method:            c.cfg.CalculationMethod,
		PrecisionEstimate: DefaultZenithPrecisionArcmin,
		JulianDate:        c.jd,
	}, nil
}

// MCICLines generates the culmination and anti-culmination lines for a
// body: two vertical lines anchored on the zenith, 180° apart.
func (c *Calculator) MCICLines(ctx context.Context, body model.Body, latRange model.LatitudeRange) (mc, ic model.PlanetaryLine, err error) {
	if err := c.validBody(body); err != nil {
		return mc, ic, err
	}
	if err := latRange.Validate(); err != nil {
		return mc, ic, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ctx, span := c.tracer.Start(ctx, "MCICLines",
		trace.WithAttributes(attribute.String("body", body.String())))
	defer span.End()
	defer c.observe("mc_ic_lines", time.Now())

	zenith, err := c.ZenithPoint(ctx, body)
	if err != nil {
		return mc, ic, err
	}

	mcPoints, icPoints, err := MCICPoints(ctx, zenith.Point, latRange, c.cfg.SamplingResolution)
	if err != nil {
		return mc, ic, err
	}
	mc = c.newLine(body, model.AngleMC, mcPoints)
	ic = c.newLine(body, model.AngleIC, icPoints)

	c.log.Debug(ctx, "computed MC/IC lines",
		logging.String("body", body.String()),
		logging.Int("points", len(mcPoints)))
	return mc, ic, nil
}

// AscendantDescendantLines traces the body's rising/setting curve over the
// requested band and splits it into the ASC and DESC arcs. Empty arcs mean
// the body never crosses the horizon inside the band; that is valid output.
func (c *Calculator) AscendantDescendantLines(ctx context.Context, body model.Body, lonRange model.LongitudeRange, latRange model.LatitudeRange) (asc, desc model.PlanetaryLine, err error) {
	if err := c.validBody(body); err != nil {
		return asc, desc, err
	}
	if err := latRange.Validate(); err != nil {
		return asc, desc, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := lonRange.Validate(); err != nil {
		return asc, desc, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ctx, span := c.tracer.Start(ctx, "AscendantDescendantLines",
		trace.WithAttributes(attribute.String("body", body.String())))
	defer span.End()
	defer c.observe("asc_desc_lines", time.Now())

	pos, err := c.position(ctx, body)
	if err != nil {
		return asc, desc, err
	}
	ra, dec, err := c.raDec(pos)
	if err != nil {
		return asc, desc, err
	}

	arcs, err := TraceHorizon(ctx, ra, dec, c.gst, latRange, c.cfg.SamplingResolution)
	if err != nil {
		return asc, desc, err
	}
	asc = c.newLine(body, model.AngleASC, filterLongitudeRange(arcs.Asc, lonRange))
	desc = c.newLine(body, model.AngleDESC, filterLongitudeRange(arcs.Desc, lonRange))

	c.log.Debug(ctx, "traced horizon curve",
		logging.String("body", body.String()),
		logging.Int("asc_points", len(asc.Points)),
		logging.Int("desc_points", len(desc.Points)))
	return asc, desc, nil
}

// ParanLine finds the latitudes where two bodies are simultaneously angular
// at the given angles.
func (c *Calculator) ParanLine(ctx context.Context, primary, secondary model.LineKey, orbTolerance float64) (model.ParanLine, error) {
	if err := c.validBody(primary.Body); err != nil {
		return model.ParanLine{}, err
	}
	if err := c.validBody(secondary.Body); err != nil {
		return model.ParanLine{}, err
	}
	if primary.Body == secondary.Body {
		return model.ParanLine{}, fmt.Errorf("%w: paran bodies must differ", ErrInvalidInput)
	}
	if !primary.Angle.Valid() || !secondary.Angle.Valid() {
		return model.ParanLine{}, fmt.Errorf("%w: paran angles %v/%v", ErrInvalidInput, primary.Angle, secondary.Angle)
	}
	if orbTolerance <= 0 {
		return model.ParanLine{}, fmt.Errorf("%w: orb tolerance %v", ErrInvalidInput, orbTolerance)
	}
	ctx, span := c.tracer.Start(ctx, "ParanLine")
	defer span.End()
	defer c.observe("paran_line", time.Now())

	lines := make(map[model.LineKey]model.PlanetaryLine, 2)
	for _, key := range []model.LineKey{primary, secondary} {
		line, err := c.lineFor(ctx, key)
		if err != nil {
			return model.ParanLine{}, err
		}
		lines[key] = line
	}

	parans, stats := FindParans(lines, ParanOptions{OrbTolerance: orbTolerance})
	if c.solverMetrics != nil {
		c.solverMetrics.AddParanComparisons(stats.PointComparisons)
	}
	for _, p := range parans {
		if (p.Primary == primary && p.Secondary == secondary) ||
			(p.Primary == secondary && p.Secondary == primary) {
			return model.ParanLine{
				Primary:      primary,
				Secondary:    secondary,
				Points:       p.Points,
				OrbTolerance: orbTolerance,
			}, nil
		}
	}
	return model.ParanLine{Primary: primary, Secondary: secondary, OrbTolerance: orbTolerance}, nil
}

// lineFor generates the line a paran needs for one key, over the full
// world band.
func (c *Calculator) lineFor(ctx context.Context, key model.LineKey) (model.PlanetaryLine, error) {
	switch key.Angle {
	case model.AngleMC, model.AngleIC:
		mc, ic, err := c.MCICLines(ctx, key.Body, model.WorldLatitudes())
		if err != nil {
			return model.PlanetaryLine{}, err
		}
		if key.Angle == model.AngleMC {
			return mc, nil
		}
		return ic, nil
	default:
		asc, desc, err := c.AscendantDescendantLines(ctx, key.Body, model.WorldLongitudes(), model.WorldLatitudes())
		if err != nil {
			return model.PlanetaryLine{}, err
		}
		if key.Angle == model.AngleASC {
			return asc, nil
		}
		return desc, nil
	}
}

// AspectLine locates the longitudes, per sampled latitude, where the body
// holds the target aspect to a local chart angle. MC/IC reference angles are
// latitude-independent, so they take a seeded vertical-line fast path; the
// horizon angles sweep latitudes through the root-finder.
func (c *Calculator) AspectLine(ctx context.Context, body model.Body, refAngle model.Angle, aspectDegrees float64, latRange model.LatitudeRange, lonRange model.LongitudeRange) (model.AspectLine, error) {
	if err := c.validBody(body); err != nil {
		return model.AspectLine{}, err
	}
	if !refAngle.Valid() {
		return model.AspectLine{}, fmt.Errorf("%w: reference angle %v", ErrInvalidInput, refAngle)
	}
	if aspectDegrees < 0 || aspectDegrees >= 360 || !finite(aspectDegrees) {
		return model.AspectLine{}, fmt.Errorf("%w: aspect %v degrees", ErrInvalidInput, aspectDegrees)
	}
	if err := latRange.Validate(); err != nil {
		return model.AspectLine{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := lonRange.Validate(); err != nil {
		return model.AspectLine{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ctx, span := c.tracer.Start(ctx, "AspectLine",
		trace.WithAttributes(
			attribute.String("body", body.String()),
			attribute.String("angle", refAngle.String()),
			attribute.Float64("aspect", aspectDegrees),
		))
	defer span.End()
	defer c.observe("aspect_line", time.Now())

	pos, err := c.position(ctx, body)
	if err != nil {
		return model.AspectLine{}, err
	}

	solver := &AspectSolver{
		Evaluator: c.fast,
		Strategy:  c.cfg.BracketStrategy,
	}

	var points []model.LinePoint
	switch refAngle {
	case model.AngleMC, model.AngleIC:
		points, err = c.meridianAspectPoints(ctx, solver, pos, refAngle, aspectDegrees, latRange, lonRange)
	default:
		points, err = solver.Solve(ctx, c.jd, pos.EclipticLongitude, refAngle, aspectDegrees, latRange, lonRange, c.cfg.AspectLatitudeStep)
	}
	c.recordSolver(solver)
	if err != nil && points == nil {
		return model.AspectLine{}, err
	}

	line := model.AspectLine{
		Body:           body,
		ReferenceAngle: refAngle,
		AspectDegrees:  aspectDegrees,
		OrbApplied:     solver.acceptTolerance(),
		JulianDate:     c.jd,
		Points:         points,
	}
	return line, err
}

// meridianAspectPoints handles MC/IC reference angles. The aspect longitude
// does not vary with latitude, so two seeds at RA ± aspect − GST (shifted
// 180° for IC) are refined by ternary search and swept down the latitude
// band as vertical lines.
func (c *Calculator) meridianAspectPoints(ctx context.Context, solver *AspectSolver, pos model.PlanetaryPosition, refAngle model.Angle, aspectDegrees float64, latRange model.LatitudeRange, lonRange model.LongitudeRange) ([]model.LinePoint, error) {
	ra, _, err := c.raDec(pos)
	if err != nil {
		return nil, err
	}

	seeds := []float64{
		NormalizeLongitude(ra + aspectDegrees - c.gst),
		NormalizeLongitude(ra - aspectDegrees - c.gst),
	}
	if refAngle == model.AngleIC {
		seeds[0] = NormalizeLongitude(seeds[0] + 180)
		seeds[1] = NormalizeLongitude(seeds[1] + 180)
	}

	// MC is latitude-independent; 45°N is a safe probe latitude for the
	// house port.
	const probeLatitude = 45.0
	errAt := func(lon float64) float64 {
		return solver.aspectError(ctx, c.jd, pos.EclipticLongitude, probeLatitude, lon, refAngle, aspectDegrees)
	}

	const seedWindow = 10.0
	var longitudes []float64
	for _, seed := range seeds {
		lon, ok := solver.ternary(seed-seedWindow, seed+seedWindow, errAt)
		if !ok {
			continue
		}
		lon = NormalizeLongitude(lon)
		if lonRange.Contains(lon) && !containsNear(longitudes, lon, 1.0) {
			longitudes = append(longitudes, lon)
		}
	}

	var points []model.LinePoint
	for i, lon := range longitudes {
		if i > 0 {
			points = append(points, model.BreakPoint())
		}
		for _, lat := range sampleRange(latRange.Min, latRange.Max, c.cfg.SamplingResolution) {
			points = append(points, model.PointAt(lon, lat))
		}
	}
	return points, nil
}

// LocalSpaceLine computes the compass line from a birth location toward the
// body.
func (c *Calculator) LocalSpaceLine(ctx context.Context, body model.Body, birthLongitude, birthLatitude float64) (model.LocalSpaceLine, error) {
	if err := c.validBody(body); err != nil {
		return model.LocalSpaceLine{}, err
	}
	birth, err := model.NewGeographicPoint(birthLongitude, birthLatitude)
	if err != nil {
		return model.LocalSpaceLine{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer c.observe("local_space_line", time.Now())

	pos, err := c.position(ctx, body)
	if err != nil {
		return model.LocalSpaceLine{}, err
	}
	_, dec, err := c.raDec(pos)
	if err != nil {
		return model.LocalSpaceLine{}, err
	}
	zenith, err := c.ZenithPoint(ctx, body)
	if err != nil {
		return model.LocalSpaceLine{}, err
	}
	return LocalSpaceFrom(body, birth, zenith.Point, dec), nil
}

func (c *Calculator) newLine(body model.Body, angle model.Angle, points []model.LinePoint) model.PlanetaryLine {
	if c.metrics != nil {
		c.metrics.LineComputed(body.String(), angle.String())
	}
	return model.PlanetaryLine{
		Body:               body,
		LineType:           angle,
		Method:             c.cfg.CalculationMethod,
		Points:             points,
		SamplingResolution: c.cfg.SamplingResolution,
		OrbInfluenceKm:     c.cfg.OrbInfluenceKm,
	}
}

// filterLongitudeRange keeps the points inside a longitude band, inserting
// a break sentinel wherever the filter cuts a gap into a segment.
func filterLongitudeRange(points []model.LinePoint, lonRange model.LongitudeRange) []model.LinePoint {
	if lonRange.Min <= model.MinLongitude && lonRange.Max >= model.MaxLongitude {
		return points
	}
	var out []model.LinePoint
	gap := false
	for _, p := range points {
		if p.Break {
			gap = true
			continue
		}
		if !lonRange.Contains(p.Point.Longitude) {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, model.BreakPoint())
		}
		gap = false
		out = append(out, p)
	}
	return out
}

func containsNear(values []float64, v, within float64) bool {
	for _, x := range values {
		if math.Abs(wrap180(x-v)) < within {
			return true
		}
	}
	return false
}
