package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sma-backtester/internal/config"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:           "db.internal",
		Port:           5433,
		Name:           "prices",
		User:           "reader",
		Password:       "secret",
		SSLMode:        "require",
		MaxConnections: 7,
	}

	poolConfig, err := newPoolConfig(connString(cfg), cfg.MaxConnections)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "prices", poolConfig.ConnConfig.Database)
	assert.Equal(t, "reader", poolConfig.ConnConfig.User)
	assert.Equal(t, "secret", poolConfig.ConnConfig.Password)
	assert.Equal(t, int32(7), poolConfig.MaxConns)
	assert.Equal(t, int32(1), poolConfig.MinConns)
	assert.Equal(t, 5*time.Minute, poolConfig.MaxConnLifetime)
	assert.NotNil(t, poolConfig.AfterConnect)
}

func TestConnStringDefaultsSSLMode(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432, Name: "prices", User: "u"}
	assert.Equal(t, "postgres://u:@localhost:5432/prices?sslmode=disable", connString(cfg))

	cfg.Password = "p@ss word"
	poolConfig, err := newPoolConfig(connString(cfg), 0)
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", poolConfig.ConnConfig.Password)
}
