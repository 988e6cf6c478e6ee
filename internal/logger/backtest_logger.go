// Package logger provides backtest-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for backtest runs.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (bl *BacktestLogger) LogRunStarted(runID, symbol string, start, end time.Time, window int, initialCapital float64, mode string) {
	bl.WithFields(logrus.Fields{
		"run_id":          runID,
		"symbol":          symbol,
		"start_date":      start.Format("2006-01-02"),
		"end_date":        end.Format("2006-01-02"),
		"window":          window,
		"initial_capital": initialCapital,
		"execution_mode":  mode,
	}).Info("Backtest run started")
}

// LogRunCompleted logs a successful backtest run.
func (bl *BacktestLogger) LogRunCompleted(runID, symbol string, bars int, finalStrategy, finalBenchmark, cagrStrategy, cagrBenchmark float64, duration time.Duration) {
	bl.WithFields(logrus.Fields{
		"run_id":                  runID,
		"symbol":                  symbol,
		"bars":                    bars,
		"final_capital_strategy":  finalStrategy,
		"final_capital_benchmark": finalBenchmark,
		"cagr_strategy":           cagrStrategy,
		"cagr_benchmark":          cagrBenchmark,
		"duration_ms":             float64(duration.Microseconds()) / 1000,
	}).Info("Backtest run completed")
}

// LogRunFailed logs a backtest run aborted by an error.
func (bl *BacktestLogger) LogRunFailed(runID, symbol string, window int, err error) {
	bl.WithFields(logrus.Fields{
		"run_id": runID,
		"symbol": symbol,
		"window": window,
	}).WithError(err).Warn("Backtest run failed")
}

// LogLookAheadMode flags runs that apply a bar's own position to its return.
func (bl *BacktestLogger) LogLookAheadMode(runID string) {
	bl.WithFields(logrus.Fields{
		"run_id":     runID,
		"event_type": "same_bar_execution",
	}).Debug("Strategy returns use same-bar position")
}
