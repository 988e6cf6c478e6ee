// Package metrics provides the centralized Prometheus metrics registry for the backtester.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sma_backtest"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Data source metrics
var (
	SeriesLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_loads_total",
		Help:      "Total number of price series loads by source and status",
	}, []string{"source", "status"})
	SeriesCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_cache_requests_total",
		Help:      "Price series cache lookups by result",
	}, []string{"result"})
	SeriesLoadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "series_load_duration_seconds",
		Help:      "Duration of price series loads in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SeriesLoadsTotal)
		registry.MustRegister(SeriesCacheRequestsTotal)
		registry.MustRegister(SeriesLoadDuration)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestFinalCapital)
		registry.MustRegister(BacktestCAGR)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSeriesLoad records a price series load.
// status should be one of: "success", "not_found", "error"
func RecordSeriesLoad(source, status string, durationSeconds float64) {
	SeriesLoadsTotal.WithLabelValues(source, status).Inc()
	SeriesLoadDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	SeriesCacheRequestsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	SeriesCacheRequestsTotal.WithLabelValues("miss").Inc()
}
