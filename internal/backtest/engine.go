package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/metrics"
	"github.com/yourusername/sma-backtester/internal/models"
)

// SeriesProvider supplies price series to the engine
type SeriesProvider interface {
	ListAvailableSymbols(ctx context.Context) ([]string, error)
	LoadSeries(ctx context.Context, symbol string) (*models.PriceSeries, error)
}

// Option customises a single RunBacktest call
type Option func(*runOptions)

type runOptions struct {
	runID        uuid.UUID
	riskFreeRate float64
	now          func() time.Time
}

// WithRunID sets the identifier stamped on the result
func WithRunID(id uuid.UUID) Option {
	return func(o *runOptions) { o.runID = id }
}

// WithRiskFreeRate sets the annual risk-free rate used for Sharpe ratios
func WithRiskFreeRate(rate float64) Option {
	return func(o *runOptions) { o.riskFreeRate = rate }
}

// Simulation is the bar-by-bar outcome of a run before annualisation
type Simulation struct {
	Bars           []models.Bar
	Applied        []int
	StrategyCurve  EquityCurve
	BenchmarkCurve EquityCurve
}

// Simulate slices series to the requested range, drops the moving-average
// warm-up, derives positions and compounds both equity curves. series is
// never modified.
func Simulate(series *models.PriceSeries, req models.BacktestRequest) (*Simulation, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if series == nil {
		return nil, fmt.Errorf("%w: price series is required", models.ErrInvalidRequest)
	}

	window := req.WindowLength
	slice := series.Between(req.StartDate, req.EndDate)
	if len(slice) < window {
		return nil, &models.InsufficientDataError{
			Symbol:       req.Symbol,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			Window:       window,
			Observations: len(slice),
		}
	}

	// Bars without a defined average are dropped, not zero-filled
	ma := MovingAverage(models.Prices(slice), window)[window-1:]
	bars := slice[window-1:]

	positions := DeriveSignals(models.Prices(bars), ma)
	applied := appliedPositions(positions, req.Mode())

	dates := make([]time.Time, len(bars))
	strategyReturns := make([]float64, len(bars))
	benchmarkReturns := make([]float64, len(bars))
	resultBars := make([]models.Bar, len(bars))
	for i, bar := range bars {
		dates[i] = bar.Date
		benchmarkReturns[i] = bar.DailyReturn
		strategyReturns[i] = bar.DailyReturn * float64(applied[i])
		resultBars[i] = models.Bar{
			Date:           bar.Date,
			Price:          bar.Price,
			MovingAverage:  ma[i],
			Position:       positions[i],
			DailyReturn:    bar.DailyReturn,
			StrategyReturn: strategyReturns[i],
		}
	}

	return &Simulation{
		Bars:           resultBars,
		Applied:        applied,
		StrategyCurve:  buildCurve(dates, Compound(strategyReturns), req.InitialCapital),
		BenchmarkCurve: buildCurve(dates, Compound(benchmarkReturns), req.InitialCapital),
	}, nil
}

// RunBacktest computes the moving-average strategy and the buy-and-hold
// benchmark over the requested range of series and annualises both. It is
// pure: no state outlives the call and failures return no partial result.
func RunBacktest(series *models.PriceSeries, req models.BacktestRequest, opts ...Option) (*models.BacktestResult, error) {
	o := runOptions{runID: uuid.New(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	sim, err := Simulate(series, req)
	if err != nil {
		return nil, err
	}

	first, last := sim.Bars[0].Date, sim.Bars[len(sim.Bars)-1].Date
	years := elapsedYears(first, last)
	if years <= 0 {
		return nil, &models.DegenerateRangeError{
			Symbol:    req.Symbol,
			StartDate: first,
			EndDate:   last,
			Window:    req.WindowLength,
		}
	}

	alwaysLong := make([]int, len(sim.Bars))
	for i := range alwaysLong {
		alwaysLong[i] = Long
	}

	strategy, benchmark := sim.StrategyCurve.Last(), sim.BenchmarkCurve.Last()
	cagrStrategy := calculateCAGR(strategy.Growth, years)
	cagrBenchmark := calculateCAGR(benchmark.Growth, years)
	if !finite(strategy.Capital, benchmark.Capital, cagrStrategy, cagrBenchmark) {
		return nil, &models.DegenerateRangeError{
			Symbol:    req.Symbol,
			StartDate: first,
			EndDate:   last,
			Window:    req.WindowLength,
			Reason:    "growth rate overflows",
		}
	}

	return &models.BacktestResult{
		RunID:                 o.runID,
		Request:               req,
		StartDate:             first,
		EndDate:               last,
		Years:                 years,
		FinalCapitalStrategy:  strategy.Capital,
		FinalCapitalBenchmark: benchmark.Capital,
		CAGRStrategy:          cagrStrategy,
		CAGRBenchmark:         cagrBenchmark,
		EquityCurveStrategy:   sim.StrategyCurve,
		EquityCurveBenchmark:  sim.BenchmarkCurve,
		Bars:                  sim.Bars,
		SummaryStrategy:       summarizeCurve(sim.StrategyCurve, sim.Applied, o.riskFreeRate),
		SummaryBenchmark:      summarizeCurve(sim.BenchmarkCurve, alwaysLong, o.riskFreeRate),
		CreatedAt:             o.now().UTC(),
	}, nil
}

// appliedPositions returns the position multiplied into each bar's return.
// In next-bar mode the position decided at bar i-1 applies to bar i, and the
// initial long entry covers bar 0.
func appliedPositions(positions []int, mode models.ExecutionMode) []int {
	if mode != models.ExecutionNextBar {
		return positions
	}
	applied := make([]int, len(positions))
	for i := range positions {
		if i == 0 {
			applied[i] = Long
			continue
		}
		applied[i] = positions[i-1]
	}
	return applied
}

// Engine runs backtests against a price series provider
type Engine struct {
	config   EngineConfig
	provider SeriesProvider
	logger   *logrus.Logger
	runLog   *logger.BacktestLogger
}

// NewEngine creates a new backtesting engine
func NewEngine(cfg EngineConfig, provider SeriesProvider, log *logrus.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("price series provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if log == nil {
		log = logrus.New()
	}
	metrics.InitRegistry()

	return &Engine{
		config:   cfg,
		provider: provider,
		logger:   log,
		runLog:   logger.NewBacktestLogger(log),
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Symbols lists the symbols available from the provider
func (e *Engine) Symbols(ctx context.Context) ([]string, error) {
	return e.provider.ListAvailableSymbols(ctx)
}

// Series loads the full price series for a symbol
func (e *Engine) Series(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	return e.provider.LoadSeries(ctx, symbol)
}

// DefaultRequest builds a request spanning the whole series of symbol with
// the configured default window and capital
func (e *Engine) DefaultRequest(ctx context.Context, symbol string) (models.BacktestRequest, error) {
	series, err := e.provider.LoadSeries(ctx, symbol)
	if err != nil {
		return models.BacktestRequest{}, err
	}
	return models.BacktestRequest{
		Symbol:         symbol,
		StartDate:      series.FirstDate(),
		EndDate:        series.LastDate(),
		WindowLength:   e.config.DefaultWindow,
		InitialCapital: e.config.InitialCapital,
		ExecutionMode:  e.config.ExecutionMode,
	}, nil
}

// Run loads the requested series and executes one backtest
func (e *Engine) Run(ctx context.Context, req models.BacktestRequest) (*models.BacktestResult, error) {
	runID := uuid.New()
	started := time.Now()
	if req.ExecutionMode == "" {
		req.ExecutionMode = e.config.ExecutionMode
	}

	result, err := e.run(ctx, runID, req)
	duration := time.Since(started)
	if err != nil {
		metrics.RecordBacktestRun(runStatus(err), duration.Seconds())
		e.runLog.LogRunFailed(runID.String(), req.Symbol, req.WindowLength, err)
		return nil, err
	}

	metrics.RecordBacktestRun("success", duration.Seconds())
	metrics.UpdateBacktestOutcome(req.Symbol, result.FinalCapitalStrategy, result.FinalCapitalBenchmark, result.CAGRStrategy, result.CAGRBenchmark)
	e.runLog.LogRunCompleted(runID.String(), req.Symbol, len(result.Bars),
		result.FinalCapitalStrategy, result.FinalCapitalBenchmark, result.CAGRStrategy, result.CAGRBenchmark, duration)
	return result, nil
}

func (e *Engine) run(ctx context.Context, runID uuid.UUID, req models.BacktestRequest) (*models.BacktestResult, error) {
	if err := e.checkWindow(req.WindowLength); err != nil {
		return nil, err
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	e.runLog.LogRunStarted(runID.String(), req.Symbol, req.StartDate, req.EndDate, req.WindowLength, req.InitialCapital, string(req.Mode()))
	if req.Mode() == models.ExecutionSameBar {
		e.runLog.LogLookAheadMode(runID.String())
	}

	series, err := e.provider.LoadSeries(ctx, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return RunBacktest(series, req, WithRunID(runID), WithRiskFreeRate(e.config.RiskFreeRate))
}

func (e *Engine) checkWindow(window int) error {
	if window < e.config.MinWindow || window > e.config.MaxWindow {
		return fmt.Errorf("%w: window length %d outside [%d, %d]",
			models.ErrInvalidRequest, window, e.config.MinWindow, e.config.MaxWindow)
	}
	return nil
}

func runStatus(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrSchema), errors.Is(err, models.ErrParse):
		return "schema_error"
	case errors.Is(err, models.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, models.ErrDegenerateRange):
		return "degenerate_range"
	default:
		return "error"
	}
}
