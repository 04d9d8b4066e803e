// Package metrics provides Prometheus instrumentation for resolution runs and
// the element scheduler. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks resolution outcomes and scheduler throughput.
type Metrics struct {
	Resolutions       *prometheus.CounterVec
	ResolveDuration   prometheus.Histogram
	ResolvedElements  prometheus.Gauge
	ElementsProcessed *prometheus.CounterVec
	ProcessDuration   prometheus.Histogram
	WorkersBusy       prometheus.Gauge
	ScheduleRuns      prometheus.Counter
	Reloads           *prometheus.CounterVec
}

// New creates a Metrics instance with all metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bstgraph_resolutions_total",
			Help: "Total number of project resolutions, by outcome",
		}, []string{"outcome"}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bstgraph_resolve_duration_seconds",
			Help:    "Duration of a full project resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		ResolvedElements: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bstgraph_resolved_elements",
			Help: "Number of elements in the most recent successful resolution",
		}),
		ElementsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bstgraph_elements_processed_total",
			Help: "Total number of elements handled by the scheduler, by result",
		}, []string{"result"}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bstgraph_element_process_duration_seconds",
			Help:    "Duration of processing a single element",
			Buckets: prometheus.DefBuckets,
		}),
		WorkersBusy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bstgraph_scheduler_workers_busy",
			Help: "Number of scheduler workers currently processing an element",
		}),
		ScheduleRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "bstgraph_schedule_runs_total",
			Help: "Total number of scheduler runs",
		}),
		Reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bstgraph_reloads_total",
			Help: "Total number of re-resolutions triggered by file changes, by outcome",
		}, []string{"outcome"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveResolve records a resolution that started at start. elements is the
// number of resolved elements and is ignored on failure.
func (m *Metrics) ObserveResolve(start time.Time, elements int, err error) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome(err)).Inc()
	m.ResolveDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		m.ResolvedElements.Set(float64(elements))
	}
}

// IncrementScheduleRuns records the start of a scheduler run.
func (m *Metrics) IncrementScheduleRuns() {
	if m == nil {
		return
	}
	m.ScheduleRuns.Inc()
}

// WorkerStarted marks a worker as busy.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.WorkersBusy.Inc()
}

// ObserveProcess records one processed element. result is "done", "failed"
// or "skipped"; skipped elements have no meaningful duration.
func (m *Metrics) ObserveProcess(start time.Time, result string) {
	if m == nil {
		return
	}
	m.ElementsProcessed.WithLabelValues(result).Inc()
	if result != ResultSkipped {
		m.WorkersBusy.Dec()
		m.ProcessDuration.Observe(time.Since(start).Seconds())
	}
}

// IncrementReloads records a re-resolution triggered by a file change.
func (m *Metrics) IncrementReloads(err error) {
	if m == nil {
		return
	}
	m.Reloads.WithLabelValues(outcome(err)).Inc()
}

// Scheduler results.
const (
	ResultDone    = "done"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)
