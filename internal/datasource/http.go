package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/models"
)

// HTTPProvider fetches <baseURL>/<SYMBOL>.csv for each configured symbol
type HTTPProvider struct {
	client  *RateLimitedHTTPClient
	baseURL string
	symbols []string
	logger  *logger.DataLogger
}

// NewHTTPProvider creates a provider serving the given symbols from baseURL
func NewHTTPProvider(baseURL string, symbols []string, client *RateLimitedHTTPClient, log *logrus.Logger) (*HTTPProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if log == nil {
		log = logrus.New()
	}

	unique := make(map[string]struct{}, len(symbols))
	list := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := unique[s]; ok || s == "" {
			continue
		}
		unique[s] = struct{}{}
		list = append(list, s)
	}
	sort.Strings(list)

	return &HTTPProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		symbols: list,
		logger:  logger.NewDataLogger(log, string(HTTPSourceType)),
	}, nil
}

// ListAvailableSymbols returns the configured symbols
func (p *HTTPProvider) ListAvailableSymbols(ctx context.Context) ([]string, error) {
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out, nil
}

// LoadSeries downloads and parses the CSV for symbol
func (p *HTTPProvider) LoadSeries(ctx context.Context, symbol string) (series *models.PriceSeries, err error) {
	started := time.Now()
	duplicates := 0
	defer func() {
		observeLoad(p.logger, HTTPSourceType, symbol, started, series, duplicates, err)
	}()

	if symbol == "" {
		return nil, &models.NotFoundError{Symbol: symbol, Source: string(HTTPSourceType)}
	}

	resp, err := p.client.Get(ctx, p.symbolURL(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &models.NotFoundError{Symbol: symbol, Source: string(HTTPSourceType)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", symbol, resp.StatusCode)
	}

	series, duplicates, err = ParseCSV(symbol, resp.Body)
	return series, err
}

func (p *HTTPProvider) symbolURL(symbol string) string {
	return p.baseURL + "/" + url.PathEscape(symbol) + csvExtension
}
