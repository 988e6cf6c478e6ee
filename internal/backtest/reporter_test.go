package backtest

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConsoleReport(t *testing.T) {
	series := makeSeries("SPY", 10, 11, 12, 11, 10, 9, 10, 12)
	req := fullRequest(series, 3)
	req.InitialCapital = 1000000

	result, err := RunBacktest(series, req)
	require.NoError(t, err)

	report := GenerateConsoleReport(result)
	assert.Contains(t, report, "Symbol:         SPY")
	assert.Contains(t, report, "3SMA")
	assert.Contains(t, report, "Buy&Hold")
	assert.Contains(t, report, "Capital:        1,000,000")
	assert.Contains(t, report, "1,454,545")
	assert.Contains(t, report, "1,090,909")
	assert.Contains(t, report, "same_bar")
	assert.Contains(t, report, "2024-01-03 to 2024-01-08")
}

func TestGenerateCurveCSV(t *testing.T) {
	series := makeSeries("SPY", 10, 11, 12, 11, 10, 9, 10, 12)
	result, err := RunBacktest(series, fullRequest(series, 3))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(GenerateCurveCSV(result)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "date,price,moving_average,position,equity_strategy,equity_benchmark", lines[0])
	assert.Equal(t, "2024-01-03,12.000000,11.000000,1,1.090909,1.090909", lines[1])
	assert.Equal(t, "2024-01-08,12.000000,10.333333,1,1.454545,1.090909", lines[6])
}

func TestGenerateJSONReport(t *testing.T) {
	series := makeSeries("SPY", 10, 11, 12, 11, 10, 9, 10, 12)
	result, err := RunBacktest(series, fullRequest(series, 3))
	require.NoError(t, err)

	out, err := GenerateJSONReport(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, result.RunID.String(), decoded["run_id"])
	assert.Contains(t, decoded, "equity_curve_strategy")
	assert.Contains(t, decoded, "final_capital_benchmark")
}

func TestGenerateJSONReportSurfacesMarshalErrors(t *testing.T) {
	series := makeSeries("SPY", 10, 11, 12, 11, 10, 9, 10, 12)
	result, err := RunBacktest(series, fullRequest(series, 3))
	require.NoError(t, err)

	result.CAGRStrategy = math.Inf(1)
	out, err := GenerateJSONReport(result)
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "10,000", formatMoney(10000))
	assert.Equal(t, "999", formatMoney(999.4))
	assert.Equal(t, "1,234,568", formatMoney(1234567.89))
}
