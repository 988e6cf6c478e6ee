package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	testDBPassword        = "TEST_DB_PASSWORD"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sma-backtester", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, 200, cfg.Backtest.DefaultWindow)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, 600, cfg.Data.Cache.TTLSeconds)
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv(testDBPassword, "expanded_secret_value")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 200, cfg.Backtest.DefaultWindow)
	assert.Equal(t, 10, cfg.Backtest.MinWindow)
	assert.Equal(t, 250, cfg.Backtest.MaxWindow)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, "same_bar", cfg.Backtest.ExecutionMode)
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsEnvironmentOverride(t *testing.T) {
	t.Setenv("SMA_BACKTEST_BACKTEST_DEFAULT_WINDOW", "50")
	t.Setenv("SMA_BACKTEST_DATA_DIR", "/srv/prices")

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Backtest.DefaultWindow)
	assert.Equal(t, "/srv/prices", cfg.Data.Dir)
}

func TestDatabasePriceTable(t *testing.T) {
	assert.Equal(t, DefaultPriceTable, DatabaseConfig{}.PriceTable())
	assert.Equal(t, "bars_daily", DatabaseConfig{Table: "bars_daily"}.PriceTable())

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPriceTable, cfg.Database.Table)
}

func TestValidateRejectsInvalidEnums(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "development, staging, production")
	assert.Contains(t, err.Error(), "debug, info, warn, error")
	assert.Contains(t, err.Error(), "csv, postgres, http")
}

func TestValidateCrossField(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadWithDefaults(filepath.Join(os.TempDir(), "definitely-missing-config.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"window bounds inverted", func(c *Config) { c.Backtest.MinWindow = 300 }, "min_window"},
		{"default outside bounds", func(c *Config) { c.Backtest.DefaultWindow = 5 }, "default_window"},
		{"csv without dir", func(c *Config) { c.Data.Dir = " " }, "data.dir"},
		{"http without base url", func(c *Config) { c.Data.Source = "http" }, "base_url"},
		{"postgres without host", func(c *Config) { c.Data.Source = "postgres" }, "database host"},
		{"cache without ttl", func(c *Config) { c.Data.Cache.TTLSeconds = 0 }, "ttl_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateProductionPostgresRequiresSSL(t *testing.T) {
	t.Setenv(testDBPassword, "secret")
	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	cfg.Database.SSLMode = "disable"
	assert.ErrorContains(t, Validate(cfg), "SSL")
}

func TestValidateNilConfig(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "app", Password: "old"}}
	overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabasePassword: "new"})

	assert.Equal(t, "new", cfg.Database.Password)
	assert.Equal(t, "app", cfg.Database.User)
}
