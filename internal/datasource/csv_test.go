package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sma-backtester/internal/models"
)

const sampleCSV = "Date,Open,High,Low,Close,Volume\n" +
	"2024-01-01,1,1,1,100,10\n" +
	"2024-01-02,1,1,1,110,10\n" +
	"2024-01-02,1,1,1,120,10\n" +
	"2024-01-03,1,1,1,99,10\n"

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVProviderListAvailableSymbols(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPY.csv", sampleCSV)
	writeFile(t, dir, "AAPL.CSV", sampleCSV)
	writeFile(t, dir, "notes.txt", "ignore me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	provider := NewCSVProvider(dir, nil)
	symbols, err := provider.ListAvailableSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "SPY"}, symbols)
}

func TestCSVProviderLoadsEveryListedSymbol(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPY.CSV", sampleCSV)
	writeFile(t, dir, "QQQ.Csv", sampleCSV)

	provider := NewCSVProvider(dir, nil)
	symbols, err := provider.ListAvailableSymbols(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"QQQ", "SPY"}, symbols)

	for _, symbol := range symbols {
		series, err := provider.LoadSeries(context.Background(), symbol)
		require.NoError(t, err, symbol)
		assert.Equal(t, 3, series.Len(), symbol)
	}
}

func TestCSVProviderMissingDirectoryIsEmpty(t *testing.T) {
	provider := NewCSVProvider(filepath.Join(t.TempDir(), "missing"), nil)
	symbols, err := provider.ListAvailableSymbols(context.Background())
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestCSVProviderLoadSeries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPY.csv", sampleCSV)

	log, hook := test.NewNullLogger()
	provider := NewCSVProvider(dir, log)

	series, err := provider.LoadSeries(context.Background(), "SPY")
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, 110.0, series.Observations[1].Price)
	assert.InDelta(t, 99.0/110-1, series.Observations[2].DailyReturn, 1e-12)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Price series loaded", entry.Message)
	assert.Equal(t, 1, entry.Data["duplicates"])
	assert.Equal(t, "csv", entry.Data["source"])
}

func TestCSVProviderNotFound(t *testing.T) {
	provider := NewCSVProvider(t.TempDir(), nil)

	for _, symbol := range []string{"MISSING", "", "..", "../etc/passwd"} {
		_, err := provider.LoadSeries(context.Background(), symbol)
		var notFound *models.NotFoundError
		require.ErrorAs(t, err, &notFound, "symbol %q", symbol)
		assert.Equal(t, symbol, notFound.Symbol)
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
}

func TestCSVProviderPropagatesSchemaErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BAD.csv", "Date,Close\n2024-01-01,10\n")

	_, err := NewCSVProvider(dir, nil).LoadSeries(context.Background(), "BAD")
	assert.ErrorIs(t, err, models.ErrSchema)
}

func TestCSVProviderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVProvider(t.TempDir(), nil).LoadSeries(ctx, "SPY")
	assert.ErrorIs(t, err, context.Canceled)
}
