// Package metrics exposes console activity as Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recordgrid"

// Metrics implements the recorders of the fetcher, the cache and the
// mutation gateway.
type Metrics struct {
	registry    *prometheus.Registry
	listTotal   *prometheus.CounterVec
	listLatency prometheus.Histogram
	mutations   *prometheus.CounterVec
	cacheTotal  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		listTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_requests_total",
			Help:      "List requests by outcome (success, error, stale).",
		}, []string{"outcome"}),
		listLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_request_duration_seconds",
			Help:      "Time until a list response arrived.",
			Buckets:   prometheus.DefBuckets,
		}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		cacheTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveList(outcome string, elapsed time.Duration) {
	m.listTotal.WithLabelValues(outcome).Inc()
	m.listLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveMutation(op string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
