package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for asset fetching and aggregation.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ProductsTotal   *prometheus.CounterVec
	CacheTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_asset_requests_total",
			Help: "Total asset requests by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_asset_request_duration_seconds",
			Help:    "Latency of asset requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_products_total",
			Help: "Products reaching a terminal fetch state.",
		},
		[]string{"state"},
	)
	cache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_session_cache_total",
			Help: "Session cache lookups by result.",
		},
		[]string{"result"},
	)

	registry.MustRegister(requests, requestDuration, products, cache)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ProductsTotal:   products,
		CacheTotal:      cache,
	}
}

func (m *Metrics) IncRequest(kind, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncProduct counts a product that reached state.
func (m *Metrics) IncProduct(state string) {
	if m == nil {
		return
	}
	m.ProductsTotal.WithLabelValues(state).Inc()
}

// IncCache counts a session cache lookup (hit, miss or error).
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheTotal.WithLabelValues(result).Inc()
}
