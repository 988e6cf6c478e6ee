package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors, matched with errors.Is
var (
	ErrNotFound         = errors.New("symbol not found")
	ErrSchema           = errors.New("invalid price data schema")
	ErrParse            = errors.New("unparsable price data")
	ErrInsufficientData = errors.New("insufficient data for moving average window")
	ErrDegenerateRange  = errors.New("degenerate date range")
	ErrInvalidRequest   = errors.New("invalid backtest request")
)

// NotFoundError reports a symbol with no backing data
type NotFoundError struct {
	Symbol string
	Source string
}

func (e *NotFoundError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: no price data for symbol %q", e.Source, e.Symbol)
	}
	return fmt.Sprintf("no price data for symbol %q", e.Symbol)
}

// Unwrap returns ErrNotFound
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// SchemaError reports a structural problem with the source data
type SchemaError struct {
	Symbol string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: missing required column %q", e.Symbol, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

// Unwrap returns ErrSchema
func (e *SchemaError) Unwrap() error { return ErrSchema }

// ParseError reports a field value that could not be parsed
type ParseError struct {
	Symbol string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: row %d: cannot parse %s %q", e.Symbol, e.Row, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrParse and the underlying cause
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// InsufficientDataError reports a date range shorter than the averaging window
type InsufficientDataError struct {
	Symbol       string
	StartDate    time.Time
	EndDate      time.Time
	Window       int
	Observations int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %d observations between %s and %s, need at least %d for a %d-bar moving average",
		e.Symbol, e.Observations, e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout), e.Window, e.Window)
}

// Unwrap returns ErrInsufficientData
func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// DegenerateRangeError reports a backtest range that cannot be annualised:
// either the first and last bars share a date or the span is too short for
// the move it contains to give a finite growth rate.
type DegenerateRangeError struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Window    int
	Reason    string
}

func (e *DegenerateRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s between %s and %s, cannot annualise",
			e.Symbol, e.Reason, e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout))
	}
	return fmt.Sprintf("%s: zero elapsed time between %s and %s after %d-bar warm-up, cannot annualise",
		e.Symbol, e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout), e.Window)
}

// Unwrap returns ErrDegenerateRange
func (e *DegenerateRangeError) Unwrap() error { return ErrDegenerateRange }
