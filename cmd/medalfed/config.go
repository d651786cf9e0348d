package main

import (
	"fmt"

	"github.com/pevans/medalfed/config"
	"github.com/spf13/cobra"
)

var (
	setURL  string
	setTopK int
)

func init() {
	configSetCmd.Flags().StringVar(&setURL, "url", "", "Default medal table URL")
	configSetCmd.Flags().IntVar(&setTopK, "top-k", 0, "Default number of countries for top")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Reads and writes stored preferences.",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Prints the effective preferences.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			prefs := a.preferences()
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), prefs)
			}
			printPreferences(cmd.OutOrStdout(), prefs)
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Stores the default URL or ranking size.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("url") && !cmd.Flags().Changed("top-k") {
			return fmt.Errorf("at least one of --url or --top-k is required")
		}

		update := &config.Config{DefaultURL: setURL, TopK: setTopK}
		if err := config.Validate(update); err != nil {
			return err
		}
		if cmd.Flags().Changed("top-k") && setTopK == 0 {
			return fmt.Errorf("--top-k must be positive")
		}

		return withApp(func(a *app) error {
			if err := a.prefs.UpdateConfig(update); err != nil {
				return fmt.Errorf("failed to update config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Preferences updated")
			prefs := a.preferences()
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), prefs)
			}
			printPreferences(cmd.OutOrStdout(), prefs)
			return nil
		})
	},
}
