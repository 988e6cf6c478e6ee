package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sma-backtester/internal/config"
)

// Initialize creates a database connection pool and verifies the price
// table exists
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	table := cfg.PriceTable()

	var found *string
	if err := db.pool.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&found); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	if found == nil {
		db.Close()
		return nil, fmt.Errorf("price table %s does not exist", table)
	}

	return db, nil
}
