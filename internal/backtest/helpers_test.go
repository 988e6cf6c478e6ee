package backtest

import (
	"math/rand"
	"time"

	"github.com/yourusername/sma-backtester/internal/models"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// makeSeries builds a daily series starting at seriesStart with returns
// derived the same way the providers derive them
func makeSeries(symbol string, prices ...float64) *models.PriceSeries {
	obs := make([]models.PriceObservation, len(prices))
	for i, p := range prices {
		obs[i] = models.PriceObservation{
			Date:  seriesStart.AddDate(0, 0, i),
			Price: p,
		}
		if i > 0 {
			obs[i].DailyReturn = p/prices[i-1] - 1
		}
	}
	return &models.PriceSeries{Symbol: symbol, Observations: obs}
}

func dayN(n int) time.Time {
	return seriesStart.AddDate(0, 0, n)
}

func fullRequest(series *models.PriceSeries, window int) models.BacktestRequest {
	return models.BacktestRequest{
		Symbol:         series.Symbol,
		StartDate:      series.FirstDate(),
		EndDate:        series.LastDate(),
		WindowLength:   window,
		InitialCapital: 10000,
	}
}

func linearPrices(n int, from, to float64) []float64 {
	prices := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range prices {
		prices[i] = from + step*float64(i)
	}
	return prices
}

// randomWalk returns a reproducible multiplicative walk for property tests
func randomWalk(n int, seed int64) []float64 {
	gen := rand.New(rand.NewSource(seed))
	prices := make([]float64, n)
	price := 100.0
	for i := range prices {
		price *= 1 + (gen.Float64()-0.5)*0.06
		prices[i] = price
	}
	return prices
}
