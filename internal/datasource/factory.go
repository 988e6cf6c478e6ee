package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sma-backtester/internal/config"
)

// Factory creates Provider implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
	db     Querier
}

// NewFactory creates a new data source factory. db is only required for
// the postgres source.
func NewFactory(cfg *config.Config, db Querier, log *logrus.Logger) *Factory {
	if log == nil {
		log = logrus.New()
	}
	return &Factory{
		logger: log,
		config: cfg,
		db:     db,
	}
}

// NewProvider builds the configured provider, wrapped in a cache when enabled
func (f *Factory) NewProvider() (Provider, error) {
	if f.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	provider, err := f.Create(SourceType(f.config.Data.Source))
	if err != nil {
		return nil, err
	}

	if f.config.Data.Cache.Enabled {
		f.logger.WithField("ttl", f.config.CacheTTL()).Debug("Caching price series in memory")
		return NewCachedProvider(provider, f.config.CacheTTL(), f.logger), nil
	}
	return provider, nil
}

// Create creates an uncached provider of the given type
func (f *Factory) Create(sourceType SourceType) (Provider, error) {
	switch sourceType {
	case CSVSourceType:
		return NewCSVProvider(f.config.Data.Dir, f.logger), nil
	case PostgresSourceType:
		if f.db == nil {
			return nil, fmt.Errorf("postgres source requires a database connection")
		}
		provider, err := NewPostgresProvider(f.db, f.config.Database.PriceTable(), f.logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case HTTPSourceType:
		client := NewRateLimitedHTTPClient(HTTPClientConfigFrom(f.config.Data.HTTP), f.logger)
		provider, err := NewHTTPProvider(f.config.Data.BaseURL, f.config.Data.Symbols, client, f.logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// ListAvailableSources returns the supported source types
func ListAvailableSources() []SourceType {
	return []SourceType{CSVSourceType, PostgresSourceType, HTTPSourceType}
}
