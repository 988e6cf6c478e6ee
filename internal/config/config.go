// Package config provides configuration management for the SMA backtester.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Data     DataConfig     `mapstructure:"data" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
}

// DataConfig selects and configures the price series provider
type DataConfig struct {
	Source      string         `mapstructure:"source" validate:"required,datasource"`
	Dir         string         `mapstructure:"dir"`
	BaseURL     string         `mapstructure:"base_url" validate:"omitempty,url"`
	Symbols     []string       `mapstructure:"symbols"`
	RefreshCron string         `mapstructure:"refresh_cron"`
	Cache       CacheConfig    `mapstructure:"cache"`
	HTTP        HTTPDataConfig `mapstructure:"http"`
}

// CacheConfig configures in-memory caching of loaded series
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// HTTPDataConfig configures the remote CSV client
type HTTPDataConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	Table          string `mapstructure:"table"`
}

// BacktestConfig holds engine defaults and limits
type BacktestConfig struct {
	DefaultWindow  int     `mapstructure:"default_window" validate:"required,gt=0"`
	MinWindow      int     `mapstructure:"min_window" validate:"required,gt=0"`
	MaxWindow      int     `mapstructure:"max_window" validate:"required,gt=0"`
	InitialCapital float64 `mapstructure:"initial_capital" validate:"required,gt=0"`
	ExecutionMode  string  `mapstructure:"execution_mode" validate:"omitempty,execmode"`
	RiskFreeRate   float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
}

// ServerConfig configures the HTTP listeners used by the serve command
type ServerConfig struct {
	APIPort    int `mapstructure:"api_port" validate:"omitempty,min=1,max=65535"`
	HealthPort int `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns the cache expiry as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Data.Cache.TTLSeconds) * time.Second
}

// PriceTable returns the configured price table, falling back to DefaultPriceTable
func (d DatabaseConfig) PriceTable() string {
	if d.Table == "" {
		return DefaultPriceTable
	}
	return d.Table
}
