// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

// Backtest gauge vectors, labelled by curve ("strategy" or "benchmark")
var (
	BacktestFinalCapital = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_final_capital",
		Help:      "Terminal capital of the most recent backtest by symbol and curve",
	}, []string{"symbol", "curve"})
	BacktestCAGR = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_cagr",
		Help:      "Compound annual growth rate of the most recent backtest by symbol and curve",
	}, []string{"symbol", "curve"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "invalid_request", "not_found",
// "schema_error", "insufficient_data", "degenerate_range", "error"
func RecordBacktestRun(status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// UpdateBacktestOutcome publishes the headline figures of a finished run.
func UpdateBacktestOutcome(symbol string, finalStrategy, finalBenchmark, cagrStrategy, cagrBenchmark float64) {
	BacktestFinalCapital.WithLabelValues(symbol, "strategy").Set(finalStrategy)
	BacktestFinalCapital.WithLabelValues(symbol, "benchmark").Set(finalBenchmark)
	BacktestCAGR.WithLabelValues(symbol, "strategy").Set(cagrStrategy)
	BacktestCAGR.WithLabelValues(symbol, "benchmark").Set(cagrBenchmark)
}
