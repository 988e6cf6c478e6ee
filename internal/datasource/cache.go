package datasource

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sma-backtester/internal/logger"
	"github.com/yourusername/sma-backtester/internal/metrics"
	"github.com/yourusername/sma-backtester/internal/models"
)

const symbolsCacheKey = "symbols"

// CachedProvider keeps loaded series and the symbol list in memory.
// Cached series are shared between callers and must not be modified.
type CachedProvider struct {
	next   Provider
	cache  *cache.Cache
	ttl    time.Duration
	logger *logger.DataLogger
}

// NewCachedProvider wraps next with an in-memory cache
func NewCachedProvider(next Provider, ttl time.Duration, log *logrus.Logger) *CachedProvider {
	if log == nil {
		log = logrus.New()
	}
	return &CachedProvider{
		next:   next,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
		logger: logger.NewDataLogger(log, "cache"),
	}
}

// ListAvailableSymbols returns the cached symbol list, loading it on a miss
func (c *CachedProvider) ListAvailableSymbols(ctx context.Context) ([]string, error) {
	if cached, found := c.cache.Get(symbolsCacheKey); found {
		if symbols, ok := cached.([]string); ok {
			metrics.RecordCacheHit()
			out := make([]string, len(symbols))
			copy(out, symbols)
			return out, nil
		}
	}
	metrics.RecordCacheMiss()

	symbols, err := c.next.ListAvailableSymbols(ctx)
	if err != nil {
		return nil, err
	}
	stored := make([]string, len(symbols))
	copy(stored, symbols)
	c.cache.Set(symbolsCacheKey, stored, c.ttl)
	return symbols, nil
}

// LoadSeries returns the cached series for symbol, loading it on a miss.
// Failed loads are not cached.
func (c *CachedProvider) LoadSeries(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	key := seriesCacheKey(symbol)
	if cached, found := c.cache.Get(key); found {
		if series, ok := cached.(*models.PriceSeries); ok {
			metrics.RecordCacheHit()
			return series, nil
		}
	}
	metrics.RecordCacheMiss()

	series, err := c.next.LoadSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, series, c.ttl)
	return series, nil
}

// Invalidate flushes every cached entry
func (c *CachedProvider) Invalidate(reason string) {
	c.cache.Flush()
	c.logger.LogCacheInvalidated(reason)
}

// ItemCount returns the number of items in cache
func (c *CachedProvider) ItemCount() int {
	return c.cache.ItemCount()
}

// Unwrap returns the underlying provider
func (c *CachedProvider) Unwrap() Provider {
	return c.next
}

func seriesCacheKey(symbol string) string {
	return "series:" + symbol
}
