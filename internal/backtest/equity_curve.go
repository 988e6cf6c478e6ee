package backtest

import (
	"math"
	"strconv"
	"time"

	"github.com/yourusername/sma-backtester/internal/models"
)

const tradingDaysPerYear = 252

// EquityCurve represents a time-series of equity points
type EquityCurve []models.EquityPoint

// Compound turns per-bar returns into cumulative growth factors. The factor
// before the first bar is implicitly 1.
func Compound(returns []float64) []float64 {
	growth := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		growth[i] = acc
	}
	return growth
}

// buildCurve pairs growth factors with dates and scales them to capital
func buildCurve(dates []time.Time, growth []float64, initialCapital float64) EquityCurve {
	curve := make(EquityCurve, len(growth))
	for i := range growth {
		curve[i] = models.EquityPoint{
			Date:    dates[i],
			Growth:  growth[i],
			Capital: growth[i] * initialCapital,
		}
	}
	return curve
}

// Last returns the final point of the curve
func (e EquityCurve) Last() models.EquityPoint {
	if len(e) == 0 {
		return models.EquityPoint{}
	}
	return e[len(e)-1]
}

// GetReturns calculates periodic returns from the equity curve
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Growth
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, e[i].Growth/prev-1)
	}
	return returns
}

// GetVolatility calculates the annualised standard deviation of returns
func (e EquityCurve) GetVolatility() float64 {
	return stddev(e.GetReturns()) * math.Sqrt(tradingDaysPerYear)
}

// GetMaxDrawdown returns the largest peak-to-trough decline as a fraction
func (e EquityCurve) GetMaxDrawdown() float64 {
	maxDD := 0.0
	peak := 1.0
	for _, p := range e {
		if p.Growth > peak {
			peak = p.Growth
		}
		if drawdown := (peak - p.Growth) / peak; drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
