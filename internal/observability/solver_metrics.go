package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SolverCollector exposes aspect-solver and paran-specific Prometheus
// metrics, kept apart from the engine collector so line-only deployments do
// not pay for them.
type SolverCollector struct {
	gatherer prometheus.Gatherer

	AspectProbes          prometheus.Histogram
	LatitudeSamples       prometheus.Counter
	ParanComparisons      prometheus.Counter
	PositionCacheHitRatio prometheus.Gauge
}

// NewSolverCollector registers solver metrics against the provided registerer.
func NewSolverCollector(reg prometheus.Registerer) (*SolverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	probes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "astromap_aspect_solver_probes",
		Help:    "Evaluator probes performed per aspect solve.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	probes, err := registerHistogram(reg, probes, "astromap_aspect_solver_probes")
	if err != nil {
		return nil, err
	}

	samples := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astromap_latitude_samples_total",
		Help: "Cumulative latitude samples swept by the aspect solver.",
	})
	samples, err = registerCounter(reg, samples, "astromap_latitude_samples_total")
	if err != nil {
		return nil, err
	}

	comparisons := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astromap_paran_comparisons_total",
		Help: "Cumulative point comparisons performed by the paran finder.",
	})
	comparisons, err = registerCounter(reg, comparisons, "astromap_paran_comparisons_total")
	if err != nil {
		return nil, err
	}

	hitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "astromap_position_cache_hit_ratio",
		Help: "Hit ratio for the planetary position cache.",
	})
	hitRatio, err = registerGauge(reg, hitRatio, "astromap_position_cache_hit_ratio")
	if err != nil {
		return nil, err
	}

	return &SolverCollector{
		gatherer:              gatherer,
		AspectProbes:          probes,
		LatitudeSamples:       samples,
		ParanComparisons:      comparisons,
		PositionCacheHitRatio: hitRatio,
	}, nil
}

// Recorder bundles the engine and solver collectors behind one value, so a
// single recorder can be handed to the calculator and satisfy both its
// engine-level and solver-level metrics interfaces.
type Recorder struct {
	*EngineCollector
	*SolverCollector
}

// NewRecorder registers both collectors against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	engine, err := NewEngineCollector(reg)
	if err != nil {
		return nil, err
	}
	solver, err := NewSolverCollector(reg)
	if err != nil {
		return nil, err
	}
	return &Recorder{EngineCollector: engine, SolverCollector: solver}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SolverCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveAspectProbes records the probe count of one aspect solve.
func (c *SolverCollector) ObserveAspectProbes(n int) {
	if c == nil || c.AspectProbes == nil {
		return
	}
	c.AspectProbes.Observe(float64(n))
}

// AddLatitudeSamples adds swept latitude samples.
func (c *SolverCollector) AddLatitudeSamples(n int) {
	if c == nil || c.LatitudeSamples == nil || n <= 0 {
		return
	}
	c.LatitudeSamples.Add(float64(n))
}

// AddParanComparisons adds paran point comparisons.
func (c *SolverCollector) AddParanComparisons(n int) {
	if c == nil || c.ParanComparisons == nil || n <= 0 {
		return
	}
	c.ParanComparisons.Add(float64(n))
}

// SetCacheHitRatio sets the position cache hit ratio gauge.
func (c *SolverCollector) SetCacheHitRatio(ratio float64) {
	if c == nil || c.PositionCacheHitRatio == nil {
		return
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	c.PositionCacheHitRatio.Set(ratio)
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
