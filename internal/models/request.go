package models

import "time"

// ExecutionMode controls which bar's position is applied to a bar's return
type ExecutionMode string

const (
	// ExecutionSameBar multiplies bar i's return by bar i's own position
	ExecutionSameBar ExecutionMode = "same_bar"
	// ExecutionNextBar multiplies bar i's return by the position held after bar i-1
	ExecutionNextBar ExecutionMode = "next_bar"
)

// BacktestRequest carries every parameter of a single backtest run
type BacktestRequest struct {
	Symbol         string        `json:"symbol" validate:"required"`
	StartDate      time.Time     `json:"start_date" validate:"required"`
	EndDate        time.Time     `json:"end_date" validate:"required"`
	WindowLength   int           `json:"window_length" validate:"required,gt=0"`
	InitialCapital float64       `json:"initial_capital" validate:"required,gt=0"`
	ExecutionMode  ExecutionMode `json:"execution_mode,omitempty" validate:"omitempty,oneof=same_bar next_bar"`
}

// Mode returns the effective execution mode
func (r BacktestRequest) Mode() ExecutionMode {
	if r.ExecutionMode == "" {
		return ExecutionSameBar
	}
	return r.ExecutionMode
}
