// Package helpers provides fixtures shared by the integration and e2e suites.
package helpers

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/sma-backtester/internal/database"
)

// SeriesStart is the first date written by the fixtures
var SeriesStart = time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)

// SetupTestDB connects to TEST_DATABASE_URL, skipping the test when it is unset.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewDBFromURL(ctx, dbURL, 2)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)
	return db
}

// SineTrend returns n prices drifting upward with a slow cycle so that a
// moving-average filter changes position several times.
func SineTrend(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 0.05*float64(i) + 10*math.Sin(float64(i)/15)
	}
	return prices
}

// WriteSeriesCSV writes prices as <dir>/<symbol>.csv with one row per
// calendar day starting at SeriesStart.
func WriteSeriesCSV(t *testing.T, dir, symbol string, prices []float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	for i, p := range prices {
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,1000\n",
			SeriesStart.AddDate(0, 0, i).Format("2006-01-02"), p, p, p, p)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(b.String()), 0o644))
}
