package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSymbolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the symbols with price data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols, err := a.engine.Symbols(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list symbols: %w", err)
			}
			if len(symbols) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No symbols found")
				return nil
			}
			for _, symbol := range symbols {
				fmt.Fprintln(cmd.OutOrStdout(), symbol)
			}
			return nil
		},
	}
}
