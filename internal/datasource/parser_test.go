package datasource

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sma-backtester/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCSVMessyHeadersAndDuplicates(t *testing.T) {
	input := " Date ,OPEN,high,Low, Close ,Volume,Adj Close\n" +
		"2024-01-03,1,1,1,102,100,0\n" +
		"2024-01-01,1,1,1,100,100,0\n" +
		"2024-01-02,1,1,1,101,100,0\n" +
		"2024-01-02,1,1,1,999,100,0\n" +
		"2024-01-04,1,1,1,51,100,0\n"

	series, duplicates, err := ParseCSV("SPY", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, duplicates)
	assert.Equal(t, "SPY", series.Symbol)
	require.Equal(t, 4, series.Len())

	wantDates := []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3), date(2024, 1, 4)}
	wantPrices := []float64{100, 101, 102, 51}
	for i, obs := range series.Observations {
		assert.Equal(t, wantDates[i], obs.Date, "row %d", i)
		assert.Equal(t, wantPrices[i], obs.Price, "row %d", i)
	}

	assert.Equal(t, 0.0, series.Observations[0].DailyReturn)
	assert.InDelta(t, 0.01, series.Observations[1].DailyReturn, 1e-12)
	assert.InDelta(t, 102.0/101-1, series.Observations[2].DailyReturn, 1e-12)
	assert.InDelta(t, -0.5, series.Observations[3].DailyReturn, 1e-12)
}

func TestParseCSVDateLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-03-05", date(2024, 3, 5)},
		{"2024/03/05", date(2024, 3, 5)},
		{"03/05/2024", date(2024, 3, 5)},
		{"20240305", date(2024, 3, 5)},
		{"2024-03-05 16:00:00", date(2024, 3, 5)},
		{"2024-03-05T21:00:00Z", date(2024, 3, 5)},
		{" 2024-03-05 ", date(2024, 3, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			input := "Date,Open,High,Low,Close,Volume\n\"" + tt.value + "\",1,1,1,10,1\n"
			series, _, err := ParseCSV("X", strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, series.FirstDate())
		})
	}
}

func TestParseCSVTimeOfDayCollapsesToOneBar(t *testing.T) {
	input := "Date,Open,High,Low,Close,Volume\n" +
		"2024-01-02 09:30:00,1,1,1,10,1\n" +
		"2024-01-02 16:00:00,1,1,1,11,1\n"

	series, duplicates, err := ParseCSV("X", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, duplicates)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, 10.0, series.Observations[0].Price)
}

func TestParseCSVSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		reason string
	}{
		{"empty file", "", "", "empty file"},
		{"header only", "Date,Open,High,Low,Close,Volume\n", "", "no rows"},
		{"missing close", "Date,Open,High,Low,Volume\n2024-01-01,1,1,1,1\n", "close", ""},
		{"missing volume", "date,open,high,low,close\n2024-01-01,1,1,1,1\n", "volume", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCSV("X", strings.NewReader(tt.input))
			var schemaErr *models.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.ErrorIs(t, err, models.ErrSchema)
			assert.Equal(t, "X", schemaErr.Symbol)
			assert.Equal(t, tt.column, schemaErr.Column)
			assert.Equal(t, tt.reason, schemaErr.Reason)
		})
	}
}

func TestParseCSVParseErrors(t *testing.T) {
	header := "Date,Open,High,Low,Close,Volume\n"
	tests := []struct {
		name   string
		rows   string
		row    int
		column string
	}{
		{"bad date", "2024-01-01,1,1,1,10,1\nyesterday,1,1,1,10,1\n", 3, "date"},
		{"bad close", "2024-01-01,1,1,1,ten,1\n", 2, "close"},
		{"nan close", "2024-01-01,1,1,1,NaN,1\n", 2, "close"},
		{"empty close", "2024-01-01,1,1,1,,1\n", 2, "close"},
		{"zero close", "2024-01-01,1,1,1,0,1\n", 2, "close"},
		{"negative close", "2024-01-01,1,1,1,10,1\n2024-01-02,1,1,1,-3,1\n", 3, "close"},
		{"short record", "2024-01-01,1,1\n", 2, "record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCSV("X", strings.NewReader(header+tt.rows))
			var parseErr *models.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, models.ErrParse)
			assert.Equal(t, tt.row, parseErr.Row)
			assert.Equal(t, tt.column, parseErr.Column)
		})
	}
}

func TestParseCSVByteOrderMark(t *testing.T) {
	input := "\ufeffDate,Open,High,Low,Close,Volume\n2024-01-01,1,1,1,10,1\n"
	series, _, err := ParseCSV("X", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestBuildSeriesKeepsFirstSeen(t *testing.T) {
	bars := []RawBar{
		{Row: 1, Date: date(2024, 1, 2), Close: decimal.NewFromInt(20)},
		{Row: 2, Date: date(2024, 1, 1), Close: decimal.NewFromInt(10)},
		{Row: 3, Date: date(2024, 1, 2).Add(3 * time.Hour), Close: decimal.NewFromInt(30)},
	}

	series, duplicates, err := BuildSeries("X", bars)
	require.NoError(t, err)
	assert.Equal(t, 1, duplicates)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 10.0, series.Observations[0].Price)
	assert.Equal(t, 20.0, series.Observations[1].Price)
	assert.InDelta(t, 1.0, series.Observations[1].DailyReturn, 1e-12)
}
