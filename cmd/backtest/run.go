package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/sma-backtester/internal/backtest"
	"github.com/yourusername/sma-backtester/internal/models"
)

type runOptions struct {
	symbol  string
	start   string
	end     string
	window  int
	capital float64
	mode    string
	format  string
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one backtest and print the report",
		Example: `  sma-backtest run --symbol SPY
  sma-backtest run --symbol SPY --start 2015-01-01 --end 2020-12-31 --window 100 --capital 25000
  sma-backtest run --symbol SPY --mode next_bar --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRunRequest(cmd, a.engine, opts)
			if err != nil {
				return err
			}

			result, err := a.engine.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeResult(cmd, result, opts.format)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.symbol, "symbol", "s", "", "Symbol to backtest")
	flags.StringVar(&opts.start, "start", "", "First date (YYYY-MM-DD), defaults to the start of the series")
	flags.StringVar(&opts.end, "end", "", "Last date (YYYY-MM-DD), defaults to the end of the series")
	flags.IntVarP(&opts.window, "window", "w", 0, "Moving-average window in bars (default from config)")
	flags.Float64Var(&opts.capital, "capital", 0, "Initial capital (default from config)")
	flags.StringVar(&opts.mode, "mode", "", "Execution mode: same_bar or next_bar (default from config)")
	flags.StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or csv")
	_ = cmd.MarkFlagRequired("symbol")

	return cmd
}

// buildRunRequest starts from the full-series defaults and applies flags
func buildRunRequest(cmd *cobra.Command, engine *backtest.Engine, opts *runOptions) (models.BacktestRequest, error) {
	req, err := engine.DefaultRequest(cmd.Context(), opts.symbol)
	if err != nil {
		return req, err
	}

	if opts.start != "" {
		if req.StartDate, err = time.Parse(models.DateLayout, opts.start); err != nil {
			return req, fmt.Errorf("%w: invalid --start %q", models.ErrInvalidRequest, opts.start)
		}
	}
	if opts.end != "" {
		if req.EndDate, err = time.Parse(models.DateLayout, opts.end); err != nil {
			return req, fmt.Errorf("%w: invalid --end %q", models.ErrInvalidRequest, opts.end)
		}
	}
	if cmd.Flags().Changed("window") {
		req.WindowLength = opts.window
	}
	if cmd.Flags().Changed("capital") {
		req.InitialCapital = opts.capital
	}
	if opts.mode != "" {
		req.ExecutionMode = models.ExecutionMode(opts.mode)
	}
	return req, nil
}

func writeResult(cmd *cobra.Command, result *models.BacktestResult, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "text", "":
		_, err := fmt.Fprint(out, backtest.GenerateConsoleReport(result))
		return err
	case "json":
		report, err := backtest.GenerateJSONReport(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, report)
		return err
	case "csv":
		_, err := fmt.Fprint(out, backtest.GenerateCurveCSV(result))
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
