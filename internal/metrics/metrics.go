// Package metrics defines the Prometheus collectors for the engine and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal    *prometheus.CounterVec
	SearchLatency    prometheus.Histogram
	BuildDuration    prometheus.Histogram
	CacheLoadsTotal  *prometheus.CounterVec
	DocumentsIndexed prometheus.Gauge
	TermsIndexed     prometheus.Gauge
}

// New creates and registers all engine metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ir_engine_searches_total",
				Help: "Total search queries by outcome (hit, zero_result, error).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ir_engine_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ir_engine_index_build_duration_seconds",
				Help:    "Full index build duration in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		CacheLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ir_engine_cache_loads_total",
				Help: "Index cache load attempts by outcome (hit, miss, stale, corrupt).",
			},
			[]string{"outcome"},
		),
		DocumentsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ir_engine_documents_indexed",
				Help: "Number of documents in the loaded corpus.",
			},
		),
		TermsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ir_engine_terms_indexed",
				Help: "Vocabulary size of the finalized index.",
			},
		),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.BuildDuration,
		m.CacheLoadsTotal,
		m.DocumentsIndexed,
		m.TermsIndexed,
	)
	return m
}

// Handler returns the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
