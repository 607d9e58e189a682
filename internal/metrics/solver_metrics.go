package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// SolverMetricsCollector records one observation per evaluated blueprint
type SolverMetricsCollector struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	statesPopped       prometheus.Counter
	statesPruned       *prometheus.CounterVec
	maxFrontier        prometheus.Gauge
	geodes             *prometheus.GaugeVec
}

// NewSolverMetricsCollector creates a new solver metrics collector
func NewSolverMetricsCollector() *SolverMetricsCollector {
	return &SolverMetricsCollector{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of blueprint evaluations by horizon and source",
			},
			[]string{"horizon", "source"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Search duration per blueprint",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"horizon"},
		),

		statesPopped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_popped_total",
				Help:      "Search states taken off the frontier",
			},
		),

		statesPruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_pruned_total",
				Help:      "Search states discarded, by rule",
			},
			[]string{"rule"},
		),

		maxFrontier: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "max_frontier_states",
				Help:      "Largest frontier seen by the most recent search",
			},
		),

		geodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "max_geodes",
				Help:      "Most recent result per blueprint and horizon",
			},
			[]string{"blueprint", "horizon"},
		),
	}
}

// Register registers all solver metrics with the Prometheus registry
func (c *SolverMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.evaluationsTotal,
		c.evaluationDuration,
		c.statesPopped,
		c.statesPruned,
		c.maxFrontier,
		c.geodes,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

var (
	sharedMu        sync.Mutex
	sharedCollector *SolverMetricsCollector
	sharedRegistry  *prometheus.Registry
)

// SharedSolverCollector returns the collector registered on the current
// Registry, creating and registering it on first use. Later calls against
// the same Registry get the same collector.
func SharedSolverCollector() (*SolverMetricsCollector, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCollector != nil && sharedRegistry == Registry {
		return sharedCollector, nil
	}

	c := NewSolverMetricsCollector()
	if err := c.Register(); err != nil {
		return nil, err
	}
	sharedCollector, sharedRegistry = c, Registry
	return c, nil
}

// RecordEvaluation records a finished evaluation. Cached results only
// count towards evaluations_total and max_geodes.
func (c *SolverMetricsCollector) RecordEvaluation(res geode.Result, cached bool) {
	horizon := strconv.Itoa(res.Horizon)
	source := "search"
	if cached {
		source = "cache"
	}

	c.evaluationsTotal.WithLabelValues(horizon, source).Inc()
	c.geodes.WithLabelValues(strconv.Itoa(res.BlueprintID), horizon).Set(float64(res.Geodes))

	if cached {
		return
	}

	c.evaluationDuration.WithLabelValues(horizon).Observe(res.Duration.Seconds())
	c.statesPopped.Add(float64(res.Stats.Popped))
	c.statesPruned.WithLabelValues("bound").Add(float64(res.Stats.PrunedByBound))
	c.statesPruned.WithLabelValues("dominance").Add(float64(res.Stats.PrunedByDominance))
	c.maxFrontier.Set(float64(res.Stats.MaxFrontier))
}
