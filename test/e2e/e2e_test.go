//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sma-backtester/internal/api"
	"github.com/yourusername/sma-backtester/internal/backtest"
	"github.com/yourusername/sma-backtester/internal/datasource"
	"github.com/yourusername/sma-backtester/internal/health"
	"github.com/yourusername/sma-backtester/internal/scheduler"
	"github.com/yourusername/sma-backtester/test/helpers"
)

const skipE2E = "Skipping E2E test in short mode"

// TestServeFlow runs CSV loading, caching, the API and health checks together
func TestServeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip(skipE2E)
	}
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	helpers.WriteSeriesCSV(t, dir, "SINE", helpers.SineTrend(400))

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	cached := datasource.NewCachedProvider(datasource.NewCSVProvider(dir, log), time.Hour, log)
	engine, err := backtest.NewEngine(backtest.DefaultEngineConfig(), cached, log)
	require.NoError(t, err)

	apiServer := httptest.NewServer(api.NewServer(engine, 0, log).Handler())
	defer apiServer.Close()

	healthServer := health.NewServer(health.Config{
		ServiceName: "sma-backtester",
		Logger:      log,
		Checks: map[string]health.Checker{
			"provider": health.CheckFunc(func(ctx context.Context) error {
				_, err := cached.ListAvailableSymbols(ctx)
				return err
			}),
		},
	})
	healthServer.SetReady(true)
	healthHTTP := httptest.NewServer(healthServer.Handler())
	defer healthHTTP.Close()

	resp, err := http.Get(healthHTTP.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(apiServer.URL + "/api/v1/symbols")
	require.NoError(t, err)
	var symbols struct {
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&symbols))
	resp.Body.Close()
	assert.Equal(t, []string{"SINE"}, symbols.Symbols)

	body, err := json.Marshal(api.BacktestRequestBody{Symbol: "SINE", WindowLength: 50})
	require.NoError(t, err)
	resp, err = http.Post(apiServer.URL+"/api/v1/backtests", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var result api.BacktestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, result.Result)
	assert.Len(t, result.Result.Bars, 400-49)
	assert.Greater(t, cached.ItemCount(), 0)

	// New files show up once the refresh job has flushed the cache
	helpers.WriteSeriesCSV(t, dir, "LATE", helpers.SineTrend(100))
	sched := scheduler.NewScheduler(cached, log)
	require.NoError(t, sched.ScheduleCacheRefresh("@every 1s"))
	require.NoError(t, sched.Start())
	defer func() { _ = sched.Stop() }()

	assert.Eventually(t, func() bool {
		list, err := cached.ListAvailableSymbols(context.Background())
		return err == nil && len(list) == 2
	}, 3*time.Second, 100*time.Millisecond)
}
