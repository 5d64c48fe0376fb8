package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles Prometheus metrics for the calculation engine and
// provides a ready-made /metrics handler. It satisfies the engine's
// MetricsRecorder interface so the calculator can drive it directly.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	LinesComputed *prometheus.CounterVec
	OpDurations   *prometheus.HistogramVec

	PositionCacheHits   prometheus.Counter
	PositionCacheMisses prometheus.Counter
}

// NewEngineCollector registers engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil. Re-registration of an identical collector is tolerated, so tests and
// restarts reusing the default registry do not fail.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astromap_lines_total",
		Help: "Total number of planetary lines computed, labeled by body and line type.",
	}, []string{"body", "line_type"})
	lines, err := registerCounterVec(reg, lines, "astromap_lines_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astromap_operation_duration_seconds",
		Help:    "Calculation operation latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})
	durations, err = registerHistogramVec(reg, durations, "astromap_operation_duration_seconds")
	if err != nil {
		return nil, err
	}

	hits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astromap_position_cache_hits_total",
		Help: "Planetary position cache hits.",
	}), "astromap_position_cache_hits_total")
	if err != nil {
		return nil, err
	}
	misses, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astromap_position_cache_misses_total",
		Help: "Planetary position cache misses.",
	}), "astromap_position_cache_misses_total")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		LinesComputed:       lines,
		OpDurations:         durations,
		PositionCacheHits:   hits,
		PositionCacheMisses: misses,
	}, nil
}

// LineComputed records one generated planetary line.
func (c *EngineCollector) LineComputed(body, lineType string) {
	if c == nil || c.LinesComputed == nil {
		return
	}
	c.LinesComputed.WithLabelValues(body, lineType).Inc()
}

// CacheHit records a position cache hit.
func (c *EngineCollector) CacheHit() {
	if c == nil || c.PositionCacheHits == nil {
		return
	}
	c.PositionCacheHits.Inc()
}

// CacheMiss records a position cache miss.
func (c *EngineCollector) CacheMiss() {
	if c == nil || c.PositionCacheMisses == nil {
		return
	}
	c.PositionCacheMisses.Inc()
}

// ObserveDuration records one operation's wall-clock duration.
func (c *EngineCollector) ObserveDuration(op string, seconds float64) {
	if c == nil || c.OpDurations == nil {
		return
	}
	c.OpDurations.WithLabelValues(op).Observe(seconds)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
