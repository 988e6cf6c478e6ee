package backtest

import "math"

// Position values
const (
	Flat = 0
	Long = 1
)

// MovingAverage returns the trailing arithmetic mean of prices over window
// bars, aligned to the input. The first window-1 entries are NaN.
func MovingAverage(prices []float64, window int) []float64 {
	if window <= 0 {
		return nil
	}
	out := make([]float64, len(prices))
	var sum float64
	for i := range prices {
		sum += prices[i]
		if i >= window {
			sum -= prices[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// DeriveSignals runs the crossover state machine over prices and their moving
// average. Both slices must be fully defined and of equal length.
//
// The first bar is always long. Afterwards the position flips to long only
// when price crosses above its average (price > MA after price <= MA on the
// previous bar), flips to flat only when price crosses below (price < MA after
// price >= MA), and is carried forward otherwise.
func DeriveSignals(prices, ma []float64) []int {
	positions := make([]int, len(prices))
	if len(prices) == 0 {
		return positions
	}

	current := Long
	positions[0] = current
	for i := 1; i < len(prices); i++ {
		price, avg := prices[i], ma[i]
		prevPrice, prevAvg := prices[i-1], ma[i-1]

		if price > avg && prevPrice <= prevAvg {
			current = Long
		} else if price < avg && prevPrice >= prevAvg {
			current = Flat
		}
		positions[i] = current
	}
	return positions
}

// CountTransitions returns the number of bars whose position differs from the previous bar
func CountTransitions(positions []int) int {
	count := 0
	for i := 1; i < len(positions); i++ {
		if positions[i] != positions[i-1] {
			count++
		}
	}
	return count
}
