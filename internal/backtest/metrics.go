package backtest

import (
	"math"
	"time"

	"github.com/yourusername/sma-backtester/internal/models"
)

const daysPerYear = 365.0

// elapsedYears returns the calendar time between two dates in 365-day years
func elapsedYears(first, last time.Time) float64 {
	days := math.Round(last.Sub(first).Hours() / 24)
	return days / daysPerYear
}

// calculateCAGR annualises a terminal growth factor over years.
// Callers must reject years <= 0.
func calculateCAGR(finalGrowth, years float64) float64 {
	if finalGrowth <= 0 {
		return -1
	}
	return math.Pow(finalGrowth, 1.0/years) - 1.0
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// summarizeCurve computes descriptive statistics for one equity curve
func summarizeCurve(curve EquityCurve, positions []int, riskFreeRate float64) models.CurveSummary {
	summary := models.CurveSummary{
		TotalReturn: curve.Last().Growth - 1,
		MaxDrawdown: curve.GetMaxDrawdown(),
		Volatility:  curve.GetVolatility(),
		SharpeRatio: calculateSharpeRatio(curve.GetReturns(), riskFreeRate),
		Trades:      CountTransitions(positions),
		Exposure:    exposure(positions),
	}
	return summary
}

func calculateSharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return (average(returns) - riskFreeRate/tradingDaysPerYear) / std * math.Sqrt(tradingDaysPerYear)
}

func exposure(positions []int) float64 {
	if len(positions) == 0 {
		return 0
	}
	long := 0
	for _, p := range positions {
		if p == Long {
			long++
		}
	}
	return float64(long) / float64(len(positions))
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
