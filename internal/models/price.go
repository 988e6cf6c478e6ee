package models

import "time"

// DateLayout is the canonical calendar-day format used across the application
const DateLayout = "2006-01-02"

// PriceObservation is a single daily bar reduced to its closing price
type PriceObservation struct {
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	DailyReturn float64   `json:"daily_return"`
}

// PriceSeries is an ordered, date-unique sequence of observations for one symbol.
// It must not be mutated after construction.
type PriceSeries struct {
	Symbol       string             `json:"symbol"`
	Observations []PriceObservation `json:"observations"`
}

// Len returns the number of observations
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// FirstDate returns the date of the earliest observation
func (s *PriceSeries) FirstDate() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Observations[0].Date
}

// LastDate returns the date of the latest observation
func (s *PriceSeries) LastDate() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Observations[len(s.Observations)-1].Date
}

// Between returns a copy of the observations whose date falls in [start, end]
func (s *PriceSeries) Between(start, end time.Time) []PriceObservation {
	start, end = TruncateDay(start), TruncateDay(end)
	out := make([]PriceObservation, 0)
	if s == nil {
		return out
	}
	for _, obs := range s.Observations {
		if obs.Date.Before(start) {
			continue
		}
		if obs.Date.After(end) {
			break
		}
		out = append(out, obs)
	}
	return out
}

// Prices returns the closing prices of the given observations
func Prices(observations []PriceObservation) []float64 {
	prices := make([]float64, len(observations))
	for i, obs := range observations {
		prices[i] = obs.Price
	}
	return prices
}

// TruncateDay drops the time-of-day component and normalises to UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
