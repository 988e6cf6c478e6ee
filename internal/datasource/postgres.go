package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sma-backtester/internal/config"
	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/models"
)


// Querier is the subset of pgxpool.Pool used by PostgresProvider
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresProvider reads daily bars from a price_bars style table with
// columns (symbol, date, open, high, low, close, volume)
type PostgresProvider struct {
	db     Querier
	table  string
	logger *logger.DataLogger
}

// NewPostgresProvider creates a provider reading from table
func NewPostgresProvider(db Querier, table string, log *logrus.Logger) (*PostgresProvider, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if table == "" {
		table = config.DefaultPriceTable
	}
	if log == nil {
		log = logrus.New()
	}
	return &PostgresProvider{
		db:     db,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logger.NewDataLogger(log, string(PostgresSourceType)),
	}, nil
}

// ListAvailableSymbols returns the distinct symbols in the table
func (p *PostgresProvider) ListAvailableSymbols(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT symbol FROM %s ORDER BY symbol", p.table)
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbols: %w", err)
	}
	return symbols, nil
}

// LoadSeries reads every bar stored for symbol
func (p *PostgresProvider) LoadSeries(ctx context.Context, symbol string) (series *models.PriceSeries, err error) {
	started := time.Now()
	duplicates := 0
	defer func() {
		observeLoad(p.logger, PostgresSourceType, symbol, started, series, duplicates, err)
	}()

	query := fmt.Sprintf("SELECT date, close FROM %s WHERE symbol = $1 ORDER BY date", p.table)
	rows, err := p.db.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []RawBar
	for rows.Next() {
		var (
			date       time.Time
			closePrice decimal.Decimal
		)
		if err := rows.Scan(&date, &closePrice); err != nil {
			return nil, fmt.Errorf("failed to scan bar for %s: %w", symbol, err)
		}
		bars = append(bars, RawBar{Row: len(bars) + 1, Date: date, Close: closePrice})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bars for %s: %w", symbol, err)
	}

	if len(bars) == 0 {
		return nil, &models.NotFoundError{Symbol: symbol, Source: string(PostgresSourceType)}
	}

	series, duplicates, err = BuildSeries(symbol, bars)
	return series, err
}
