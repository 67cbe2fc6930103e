// Package metrics holds the internal Prometheus instrumentation of the
// process viewer. Every method is safe on a nil receiver so collaborators can
// run uninstrumented in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "htopwin"

type Metrics struct {
	registry *prometheus.Registry

	ProbeQueries      prometheus.Counter
	ProbeFailures     prometheus.Counter
	BufferGrowths     prometheus.Counter
	OwnerLookups      prometheus.Counter
	StaticLookups     prometheus.Counter
	EfficiencyLookups prometheus.Counter
	ExeStatusChecks   prometheus.Counter
	Invalidations     prometheus.Counter
	Cleanups          prometheus.Counter
	Actions           *prometheus.CounterVec

	Processes       prometheus.Gauge
	RefreshDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ProbeQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "probe", Name: "queries_total",
			Help: "Process table queries issued to the kernel.",
		}),
		ProbeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "probe", Name: "failures_total",
			Help: "Process table queries that failed.",
		}),
		BufferGrowths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "probe", Name: "buffer_growths_total",
			Help: "Times the query buffer had to grow.",
		}),
		OwnerLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "enrich", Name: "owner_lookups_total",
			Help: "Process owner resolutions.",
		}),
		StaticLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "enrich", Name: "static_lookups_total",
			Help: "Elevation, architecture and image path resolutions.",
		}),
		EfficiencyLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "enrich", Name: "efficiency_lookups_total",
			Help: "Efficiency mode queries.",
		}),
		ExeStatusChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "enrich", Name: "exe_status_checks_total",
			Help: "Executable file stat checks.",
		}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "invalidations_total",
			Help: "Cache entries reset because a PID was reused.",
		}),
		Cleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "cleanups_total",
			Help: "Periodic cache garbage collections.",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "action", Name: "total",
			Help: "Process actions by kind and result.",
		}, []string{"kind", "result"}),
		Processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "processes",
			Help: "Processes in the last snapshot.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "refresh_duration_seconds",
			Help:    "Time spent collecting one snapshot.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	m.registry.MustRegister(
		m.ProbeQueries, m.ProbeFailures, m.BufferGrowths,
		m.OwnerLookups, m.StaticLookups, m.EfficiencyLookups, m.ExeStatusChecks,
		m.Invalidations, m.Cleanups, m.Actions,
		m.Processes, m.RefreshDuration,
	)
	return m
}

// Registry exposes the private registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ProbeQuery() {
	if m != nil {
		m.ProbeQueries.Inc()
	}
}

func (m *Metrics) ProbeFailure() {
	if m != nil {
		m.ProbeFailures.Inc()
	}
}

func (m *Metrics) BufferGrowth() {
	if m != nil {
		m.BufferGrowths.Inc()
	}
}

func (m *Metrics) OwnerLookup() {
	if m != nil {
		m.OwnerLookups.Inc()
	}
}

func (m *Metrics) StaticLookup() {
	if m != nil {
		m.StaticLookups.Inc()
	}
}

func (m *Metrics) EfficiencyLookup() {
	if m != nil {
		m.EfficiencyLookups.Inc()
	}
}

func (m *Metrics) ExeStatusCheck() {
	if m != nil {
		m.ExeStatusChecks.Inc()
	}
}

func (m *Metrics) Invalidation() {
	if m != nil {
		m.Invalidations.Inc()
	}
}

func (m *Metrics) Cleanup() {
	if m != nil {
		m.Cleanups.Inc()
	}
}

// Action records one process action outcome.
func (m *Metrics) Action(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Actions.WithLabelValues(kind, result).Inc()
}

// Refreshed records the duration and size of one collection pass.
func (m *Metrics) Refreshed(d time.Duration, processes int) {
	if m == nil {
		return
	}
	m.RefreshDuration.Observe(d.Seconds())
	m.Processes.Set(float64(processes))
}
