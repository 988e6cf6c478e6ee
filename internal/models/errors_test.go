package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	cause := errors.New("bad digit")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", &NotFoundError{Symbol: "SPY"}, ErrNotFound},
		{"schema", &SchemaError{Symbol: "SPY", Column: "close"}, ErrSchema},
		{"parse", &ParseError{Symbol: "SPY", Row: 3, Column: "date", Value: "x", Err: cause}, ErrParse},
		{"insufficient", &InsufficientDataError{Symbol: "SPY", StartDate: day, EndDate: day, Window: 5, Observations: 4}, ErrInsufficientData},
		{"degenerate", &DegenerateRangeError{Symbol: "SPY", StartDate: day, EndDate: day, Window: 5}, ErrDegenerateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("run failed: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestParseErrorKeepsCause(t *testing.T) {
	cause := errors.New("bad digit")
	err := &ParseError{Symbol: "SPY", Row: 3, Column: "close", Value: "1x", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "row 3")
}

func TestInsufficientDataErrorMessageCarriesContext(t *testing.T) {
	err := &InsufficientDataError{
		Symbol:       "QQQ",
		StartDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		Window:       50,
		Observations: 22,
	}
	msg := err.Error()
	assert.Contains(t, msg, "QQQ")
	assert.Contains(t, msg, "2024-01-02")
	assert.Contains(t, msg, "2024-02-02")
	assert.Contains(t, msg, "50")
}
