package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/models"
)

const csvExtension = ".csv"

// CSVProvider reads one <SYMBOL>.csv file per symbol from a directory
type CSVProvider struct {
	dir    string
	logger *logger.DataLogger
}

// NewCSVProvider creates a provider rooted at dir
func NewCSVProvider(dir string, log *logrus.Logger) *CSVProvider {
	if log == nil {
		log = logrus.New()
	}
	return &CSVProvider{
		dir:    dir,
		logger: logger.NewDataLogger(log, string(CSVSourceType)),
	}
}

// Dir returns the data directory
func (p *CSVProvider) Dir() string {
	return p.dir
}

// ListAvailableSymbols returns the stems of the .csv files in the data
// directory. A missing directory yields an empty list.
func (p *CSVProvider) ListAvailableSymbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", p.dir, err)
	}

	symbols := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), csvExtension) {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// LoadSeries parses <dir>/<symbol>.csv
func (p *CSVProvider) LoadSeries(ctx context.Context, symbol string) (series *models.PriceSeries, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	duplicates := 0
	defer func() {
		observeLoad(p.logger, CSVSourceType, symbol, started, series, duplicates, err)
	}()

	if !validSymbol(symbol) {
		return nil, &models.NotFoundError{Symbol: symbol, Source: string(CSVSourceType)}
	}

	path, err := p.resolvePath(symbol)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &models.NotFoundError{Symbol: symbol, Source: string(CSVSourceType)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", symbol, err)
	}
	defer f.Close()

	series, duplicates, err = ParseCSV(symbol, f)
	return series, err
}

// resolvePath returns the file backing symbol. The exact <symbol>.csv name
// wins; otherwise any entry whose stem is symbol and whose extension matches
// .csv case-insensitively is used, the same rule ListAvailableSymbols applies.
func (p *CSVProvider) resolvePath(symbol string) (string, error) {
	exact := filepath.Join(p.dir, symbol+csvExtension)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(p.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return exact, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", p.dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if !entry.IsDir() && strings.EqualFold(ext, csvExtension) && strings.TrimSuffix(name, ext) == symbol {
			return filepath.Join(p.dir, name), nil
		}
	}
	return exact, nil
}

// validSymbol rejects names that would escape the data directory
func validSymbol(symbol string) bool {
	if symbol == "" || symbol == "." || symbol == ".." {
		return false
	}
	return !strings.ContainsAny(symbol, `/\`)
}
