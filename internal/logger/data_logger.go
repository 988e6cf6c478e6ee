// Package logger provides price data logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DataLogger provides dedicated logging for price series loading.
type DataLogger struct {
	*logrus.Entry
}

// NewDataLogger creates a new data logger for the named source.
func NewDataLogger(baseLogger *logrus.Logger, source string) *DataLogger {
	return &DataLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "datasource",
			"source":    source,
		}),
	}
}

// LogSeriesLoaded logs a successfully loaded price series.
func (dl *DataLogger) LogSeriesLoaded(symbol string, rows, duplicates int, first, last time.Time) {
	dl.WithFields(logrus.Fields{
		"symbol":     symbol,
		"rows":       rows,
		"duplicates": duplicates,
		"first_date": first.Format("2006-01-02"),
		"last_date":  last.Format("2006-01-02"),
	}).Info("Price series loaded")
}

// LogSeriesFailed logs a failed load.
func (dl *DataLogger) LogSeriesFailed(symbol string, err error) {
	dl.WithField("symbol", symbol).WithError(err).Error("Price series load failed")
}

// LogCacheInvalidated logs a cache flush.
func (dl *DataLogger) LogCacheInvalidated(reason string) {
	dl.WithFields(logrus.Fields{
		"event_type": "cache_invalidated",
		"reason":     reason,
	}).Info("Price series cache invalidated")
}
