// Package metrics exposes Prometheus counters for booking mutations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "venuegrid"

// Recorder counts optimistic mutations and their reconciliation. It
// satisfies schedule.Observer.
type Recorder struct {
	registry *prometheus.Registry

	applied    *prometheus.CounterVec
	reconciled *prometheus.CounterVec
	rolledBack *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	layouts    *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutation_applied_total",
				Help:      "Count of mutations applied optimistically by kind.",
			},
			[]string{"kind"},
		),
		reconciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutation_reconciled_total",
				Help:      "Count of mutations confirmed by the backend by kind.",
			},
			[]string{"kind"},
		),
		rolledBack: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutation_rolled_back_total",
				Help:      "Count of mutations rolled back by kind and reason.",
			},
			[]string{"kind", "reason"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mutation_roundtrip_seconds",
				Help:      "Time from optimistic apply to backend confirmation.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		layouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_total",
				Help:      "Count of layout requests by cache result.",
			},
			[]string{"result"},
		),
	}
	r.registry.MustRegister(r.applied, r.reconciled, r.rolledBack, r.latency, r.layouts)
	return r
}

// Registry returns the registry the counters live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Applied(kind string) {
	r.applied.WithLabelValues(kind).Inc()
}

func (r *Recorder) Reconciled(kind string, d time.Duration) {
	r.reconciled.WithLabelValues(kind).Inc()
	r.latency.WithLabelValues(kind).Observe(d.Seconds())
}

func (r *Recorder) RolledBack(kind string, err error) {
	r.rolledBack.WithLabelValues(kind, Reason(err)).Inc()
}

// LayoutStats adds the hits and misses seen since the last call.
func (r *Recorder) LayoutStats(hits, misses int) {
	r.layouts.WithLabelValues("hit").Add(float64(hits))
	r.layouts.WithLabelValues("miss").Add(float64(misses))
}
