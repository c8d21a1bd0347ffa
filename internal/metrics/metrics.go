// Package metrics holds the Prometheus collectors of one App.
//
// Every App owns an isolated registry, so two Apps in one process (or two
// tests) never share counters.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcomes recorded by TaskRuns.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Metrics holds all collectors for tickgrid.
type Metrics struct {
	// Task execution
	TaskRuns     *prometheus.CounterVec
	TaskDuration *prometheus.HistogramVec

	// Phase execution
	PhaseDuration  *prometheus.HistogramVec
	AmbiguousPairs *prometheus.GaugeVec

	// Tick loop
	Frames prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers all collectors with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		TaskRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickgrid_task_runs_total",
				Help: "Total number of task invocations by outcome",
			},
			[]string{"phase", "outcome"},
		),
		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickgrid_task_duration_seconds",
				Help:    "Task execution duration in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"phase"},
		),
		PhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickgrid_phase_duration_seconds",
				Help:    "Phase execution duration in seconds, including the command flush",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
			},
			[]string{"phase"},
		),
		AmbiguousPairs: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickgrid_ambiguous_pairs",
				Help: "Number of task pairs with no ordering between them at the last compile",
			},
			[]string{"phase"},
		),
		Frames: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tickgrid_frames_total",
				Help: "Total number of completed frame advances",
			},
		),
	}
}

// NewRegistry creates an isolated registry with all collectors registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.gatherer = reg
	return reg, m
}

// ObserveTask records one task invocation.
func (m *Metrics) ObserveTask(phase string, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.TaskRuns.WithLabelValues(phase, outcome).Inc()
	m.TaskDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// SkipTask records a task whose run condition was false.
func (m *Metrics) SkipTask(phase string) {
	m.TaskRuns.WithLabelValues(phase, OutcomeSkipped).Inc()
}

// Handler serves the collectors in the text exposition format. Metrics
// created by NewMetrics directly fall back to the default gatherer.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
