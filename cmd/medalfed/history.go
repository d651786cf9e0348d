package main

import (
	"fmt"

	"github.com/pevans/medalfed/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyStatus string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only show attempts with this status (loaded or failed)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints recent load attempts, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 1 {
			return fmt.Errorf("--limit must be positive")
		}

		filter := history.Filter{Limit: historyLimit}
		if historyStatus != "" {
			if historyStatus != history.StatusLoaded && historyStatus != history.StatusFailed {
				return fmt.Errorf("--status must be '%s' or '%s'", history.StatusLoaded, history.StatusFailed)
			}
			filter.Status = &historyStatus
		}

		return withApp(func(a *app) error {
			attempts, err := a.history.List(filter)
			if err != nil {
				return fmt.Errorf("failed to list attempts: %w", err)
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"attempts": attempts,
					"total":    len(attempts),
				})
			}
			printAttempts(cmd.OutOrStdout(), attempts)
			return nil
		})
	},
}
