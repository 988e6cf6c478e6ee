package datasource

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sma-backtester/internal/models"
)

// Provider supplies daily price series by symbol
type Provider interface {
	// ListAvailableSymbols returns the known symbols in ascending order
	ListAvailableSymbols(ctx context.Context) ([]string, error)

	// LoadSeries returns the full series for symbol
	LoadSeries(ctx context.Context, symbol string) (*models.PriceSeries, error)
}

// Invalidator is implemented by providers that hold cached data
type Invalidator interface {
	Invalidate(reason string)
}

// SourceType represents the type of data source
type SourceType string

const (
	// CSVSourceType reads one file per symbol from a local directory
	CSVSourceType SourceType = "csv"
	// PostgresSourceType reads bars from a database table
	PostgresSourceType SourceType = "postgres"
	// HTTPSourceType fetches one CSV per symbol from a remote base URL
	HTTPSourceType SourceType = "http"
)

// RawBar is a single closing price as read from a source, before
// duplicate removal and ordering
type RawBar struct {
	Row   int
	Date  time.Time
	Close decimal.Decimal
}

// BuildSeries turns raw bars into a price series. The first bar seen for a
// date wins; later duplicates are dropped and counted. Bars are then ordered
// by date and daily returns derived, with the first return set to zero.
func BuildSeries(symbol string, bars []RawBar) (*models.PriceSeries, int, error) {
	seen := make(map[int64]struct{}, len(bars))
	kept := make([]RawBar, 0, len(bars))
	duplicates := 0

	for _, bar := range bars {
		if !bar.Close.IsPositive() {
			return nil, 0, &models.ParseError{
				Symbol: symbol,
				Row:    bar.Row,
				Column: "close",
				Value:  bar.Close.String(),
				Err:    errNonPositiveClose,
			}
		}

		day := models.TruncateDay(bar.Date)
		key := day.Unix()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		bar.Date = day
		kept = append(kept, bar)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})

	observations := make([]models.PriceObservation, len(kept))
	for i, bar := range kept {
		observations[i] = models.PriceObservation{
			Date:  bar.Date,
			Price: bar.Close.InexactFloat64(),
		}
		if i > 0 {
			observations[i].DailyReturn = observations[i].Price/observations[i-1].Price - 1
		}
	}

	return &models.PriceSeries{Symbol: symbol, Observations: observations}, duplicates, nil
}
