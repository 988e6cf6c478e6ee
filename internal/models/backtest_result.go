package models

import (
	"time"

	"github.com/google/uuid"
)

// EquityPoint is one bar of an equity curve
type EquityPoint struct {
	Date    time.Time `json:"date"`
	Growth  float64   `json:"growth"`
	Capital float64   `json:"capital"`
}

// Bar holds the per-bar working state of a backtest run
type Bar struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	MovingAverage  float64   `json:"moving_average"`
	Position       int       `json:"position"`
	DailyReturn    float64   `json:"daily_return"`
	StrategyReturn float64   `json:"strategy_return"`
}

// CurveSummary holds descriptive statistics of one equity curve
type CurveSummary struct {
	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Volatility  float64 `json:"volatility"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	Trades      int     `json:"trades"`
	Exposure    float64 `json:"exposure"`
}

// BacktestResult is the immutable outcome of one run
type BacktestResult struct {
	RunID                 uuid.UUID       `json:"run_id"`
	Request               BacktestRequest `json:"request"`
	StartDate             time.Time       `json:"start_date"`
	EndDate               time.Time       `json:"end_date"`
	Years                 float64         `json:"years"`
	FinalCapitalStrategy  float64         `json:"final_capital_strategy"`
	FinalCapitalBenchmark float64         `json:"final_capital_benchmark"`
	CAGRStrategy          float64         `json:"cagr_strategy"`
	CAGRBenchmark         float64         `json:"cagr_benchmark"`
	EquityCurveStrategy   []EquityPoint   `json:"equity_curve_strategy"`
	EquityCurveBenchmark  []EquityPoint   `json:"equity_curve_benchmark"`
	Bars                  []Bar           `json:"bars"`
	SummaryStrategy       CurveSummary    `json:"summary_strategy"`
	SummaryBenchmark      CurveSummary    `json:"summary_benchmark"`
	CreatedAt             time.Time       `json:"created_at"`
}
