package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sma-backtester/internal/models"
)

// RequiredColumns are the header fields every price file must carry
var RequiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// dateLayouts are tried in order when parsing the date column
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"20060102",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var errNonPositiveClose = errors.New("close must be positive")

// ParseCSV reads daily bars for symbol from r. Header names are matched
// case-insensitively after trimming, extra columns are ignored, and
// only the close column is interpreted. The number of duplicate dates
// dropped is returned with the series.
func ParseCSV(symbol string, r io.Reader) (*models.PriceSeries, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, &models.SchemaError{Symbol: symbol, Reason: "empty file"}
	}
	if err != nil {
		return nil, 0, csvError(symbol, err)
	}

	columns := indexHeader(header)
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, 0, &models.SchemaError{Symbol: symbol, Column: name}
		}
	}
	dateIdx, closeIdx := columns["date"], columns["close"]

	var bars []RawBar
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, csvError(symbol, err)
		}
		row++

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, 0, &models.ParseError{Symbol: symbol, Row: row, Column: "date", Value: record[dateIdx], Err: err}
		}

		closeValue := strings.TrimSpace(record[closeIdx])
		closePrice, err := decimal.NewFromString(closeValue)
		if err != nil {
			return nil, 0, &models.ParseError{Symbol: symbol, Row: row, Column: "close", Value: closeValue, Err: err}
		}

		bars = append(bars, RawBar{Row: row, Date: date, Close: closePrice})
	}

	if len(bars) == 0 {
		return nil, 0, &models.SchemaError{Symbol: symbol, Reason: "no rows"}
	}

	return BuildSeries(symbol, bars)
}

// indexHeader maps normalised column names to their first position
func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}
	return columns
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

func csvError(symbol string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &models.ParseError{Symbol: symbol, Row: parseErr.Line, Column: "record", Err: parseErr.Err}
	}
	return fmt.Errorf("failed to read %s: %w", symbol, err)
}
