// Package metrics instruments the scheduler engine with Prometheus
// collectors: a private *prometheus.Registry, a promhttp handler, and
// nil-receiver methods so an unwired *SchedulerMetrics is safe to call from
// code paths that don't construct one (e.g. tests).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
)

// SchedulerMetrics collects counters and histograms for generation runs.
type SchedulerMetrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	runsTotal            *prometheus.CounterVec
	generationDuration   prometheus.Histogram
	repairIterations     prometheus.Histogram
	violationsBySeverity *prometheus.CounterVec
}

// NewSchedulerMetrics registers the scheduler's Prometheus collectors.
func NewSchedulerMetrics() *SchedulerMetrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total number of schedule generation runs by outcome",
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_generation_duration_seconds",
		Help:    "Wall-clock duration of a full Generate call",
		Buckets: prometheus.DefBuckets,
	})

	repairIterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_repair_iterations",
		Help:    "Number of hill-climbing iterations the repair loop performed",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	violationsBySeverity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_violations_total",
		Help: "Total violations reported at run completion, by severity",
	}, []string{"severity"})

	registry.MustRegister(runsTotal, generationDuration, repairIterations, violationsBySeverity)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &SchedulerMetrics{
		registry:             registry,
		handler:              handler,
		runsTotal:            runsTotal,
		generationDuration:   generationDuration,
		repairIterations:     repairIterations,
		violationsBySeverity: violationsBySeverity,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *SchedulerMetrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRun records one completed Generate call: its outcome, wall-clock
// duration, and how many repair iterations it took.
func (m *SchedulerMetrics) ObserveRun(outcome engine.OutcomeKind, duration time.Duration, repairIterations int) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome.String()).Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.repairIterations.Observe(float64(repairIterations))
}

// ObserveViolations tallies a completed run's violation report by severity.
func (m *SchedulerMetrics) ObserveViolations(violations []domain.Violation) {
	if m == nil {
		return
	}
	for _, v := range violations {
		m.violationsBySeverity.WithLabelValues(v.Severity.String()).Inc()
	}
}
