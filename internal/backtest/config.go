package backtest

import (
	"fmt"

	"github.com/yourusername/sma-backtester/internal/config"
	"github.com/yourusername/sma-backtester/internal/models"
)

// EngineConfig holds engine defaults and request limits
type EngineConfig struct {
	DefaultWindow  int
	MinWindow      int
	MaxWindow      int
	InitialCapital float64
	ExecutionMode  models.ExecutionMode
	RiskFreeRate   float64
}

// DefaultEngineConfig returns the defaults of the interactive tool:
// a 200-bar window bounded to 10..250 and 10000 of starting capital.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultWindow:  200,
		MinWindow:      10,
		MaxWindow:      250,
		InitialCapital: 10000,
		ExecutionMode:  models.ExecutionSameBar,
	}
}

// FromConfig converts app config to engine config
func FromConfig(cfg *config.BacktestConfig) (EngineConfig, error) {
	if cfg == nil {
		return EngineConfig{}, fmt.Errorf("backtest config is required")
	}

	ec := EngineConfig{
		DefaultWindow:  cfg.DefaultWindow,
		MinWindow:      cfg.MinWindow,
		MaxWindow:      cfg.MaxWindow,
		InitialCapital: cfg.InitialCapital,
		ExecutionMode:  models.ExecutionMode(cfg.ExecutionMode),
		RiskFreeRate:   cfg.RiskFreeRate,
	}
	if ec.ExecutionMode == "" {
		ec.ExecutionMode = models.ExecutionSameBar
	}

	return ec, ec.Validate()
}

// Validate validates engine config parameters
func (c EngineConfig) Validate() error {
	if c.MinWindow <= 0 {
		return fmt.Errorf("min window must be positive")
	}
	if c.MinWindow > c.MaxWindow {
		return fmt.Errorf("min window must not exceed max window")
	}
	if c.DefaultWindow < c.MinWindow || c.DefaultWindow > c.MaxWindow {
		return fmt.Errorf("default window must lie within [%d, %d]", c.MinWindow, c.MaxWindow)
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive")
	}
	switch c.ExecutionMode {
	case models.ExecutionSameBar, models.ExecutionNextBar:
	default:
		return fmt.Errorf("unsupported execution mode %q", c.ExecutionMode)
	}
	return nil
}
