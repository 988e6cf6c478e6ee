package backtest

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/sma-backtester/internal/models"
)

// GenerateConsoleReport formats a result for terminal output
func GenerateConsoleReport(result *models.BacktestResult) string {
	req := result.Request
	label := fmt.Sprintf("%dSMA", req.WindowLength)

	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Run:            %s\n", result.RunID))
	builder.WriteString(fmt.Sprintf("Symbol:         %s\n", req.Symbol))
	builder.WriteString(fmt.Sprintf("Period:         %s to %s (%.2f years, %d bars)\n",
		result.StartDate.Format(models.DateLayout), result.EndDate.Format(models.DateLayout), result.Years, len(result.Bars)))
	builder.WriteString(fmt.Sprintf("Window:         %d\n", req.WindowLength))
	builder.WriteString(fmt.Sprintf("Execution:      %s\n", req.Mode()))
	builder.WriteString(fmt.Sprintf("Capital:        %s\n", formatMoney(req.InitialCapital)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "", label, "Buy&Hold"))
	builder.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "Final Capital", formatMoney(result.FinalCapitalStrategy), formatMoney(result.FinalCapitalBenchmark)))
	builder.WriteString(fmt.Sprintf("%-16s %15.2f%% %15.2f%%\n", "CAGR", result.CAGRStrategy*100, result.CAGRBenchmark*100))
	builder.WriteString(fmt.Sprintf("%-16s %15.2f%% %15.2f%%\n", "Total Return", result.SummaryStrategy.TotalReturn*100, result.SummaryBenchmark.TotalReturn*100))
	builder.WriteString(fmt.Sprintf("%-16s %15.2f%% %15.2f%%\n", "Max Drawdown", result.SummaryStrategy.MaxDrawdown*100, result.SummaryBenchmark.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("%-16s %15.2f%% %15.2f%%\n", "Volatility", result.SummaryStrategy.Volatility*100, result.SummaryBenchmark.Volatility*100))
	builder.WriteString(fmt.Sprintf("%-16s %16.2f %16.2f\n", "Sharpe Ratio", result.SummaryStrategy.SharpeRatio, result.SummaryBenchmark.SharpeRatio))
	builder.WriteString(fmt.Sprintf("%-16s %16d %16d\n", "Trades", result.SummaryStrategy.Trades, result.SummaryBenchmark.Trades))
	builder.WriteString(fmt.Sprintf("%-16s %15.2f%% %15.2f%%\n", "Exposure", result.SummaryStrategy.Exposure*100, result.SummaryBenchmark.Exposure*100))
	return builder.String()
}

// GenerateCurveCSV renders both growth curves side by side for charting
func GenerateCurveCSV(result *models.BacktestResult) string {
	var builder strings.Builder
	builder.WriteString("date,price,moving_average,position,equity_strategy,equity_benchmark\n")
	for i, bar := range result.Bars {
		builder.WriteString(fmt.Sprintf("%s,%s,%s,%d,%s,%s\n",
			bar.Date.Format(models.DateLayout),
			formatFloat(bar.Price),
			formatFloat(bar.MovingAverage),
			bar.Position,
			formatFloat(result.EquityCurveStrategy[i].Growth),
			formatFloat(result.EquityCurveBenchmark[i].Growth),
		))
	}
	return builder.String()
}

// GenerateJSONReport renders the full result as indented JSON
func GenerateJSONReport(result *models.BacktestResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount with thousands separators and no decimals
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.0f", v)
}
