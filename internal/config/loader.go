package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when no path is given
	DefaultConfigPath = "config/config.yaml"
	// DefaultPriceTable holds daily bars when database.table is unset
	DefaultPriceTable = "price_bars"
	envPrefix         = "SMA_BACKTEST"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults mirrors the interactive defaults of the original tool:
// a 200-bar window bounded to 10..250 and 10000 of starting capital.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sma-backtester")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("data.source", "csv")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.refresh_cron", "@every 15m")
	v.SetDefault("data.cache.enabled", true)
	v.SetDefault("data.cache.ttl_seconds", 900)
	v.SetDefault("data.http.timeout_seconds", 30)
	v.SetDefault("data.http.max_retries", 3)
	v.SetDefault("data.http.rate_limit", 5.0)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.table", DefaultPriceTable)

	v.SetDefault("backtest.default_window", 200)
	v.SetDefault("backtest.min_window", 10)
	v.SetDefault("backtest.max_window", 250)
	v.SetDefault("backtest.initial_capital", 10000.0)
	v.SetDefault("backtest.execution_mode", "same_bar")
	v.SetDefault("backtest.risk_free_rate", 0.0)

	v.SetDefault("server.api_port", 8080)
	v.SetDefault("server.health_port", 8081)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
