package datasource

import (
	"errors"
	"time"

	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/metrics"
	"github.com/yourusername/sma-backtester/internal/models"
)

// observeLoad records metrics and logs for one LoadSeries call
func observeLoad(log *logger.DataLogger, source SourceType, symbol string, started time.Time,
	series *models.PriceSeries, duplicates int, err error) {
	status := "success"
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.RecordSeriesLoad(string(source), status, time.Since(started).Seconds())

	if err != nil {
		log.LogSeriesFailed(symbol, err)
		return
	}
	log.LogSeriesLoaded(symbol, series.Len(), duplicates, series.FirstDate(), series.LastDate())
}
