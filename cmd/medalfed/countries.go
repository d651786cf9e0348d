package main

import (
	"github.com/spf13/cobra"
)

var countryURL string

func init() {
	countryCmd.Flags().StringVar(&countryURL, "url", "", "Medal table URL (default: default_url preference)")
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(countryCmd)
}

var countriesCmd = &cobra.Command{
	Use:   "countries [url]",
	Short: "Prints every country in the medal table in table order.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.load(cmd.Context(), firstArg(args)); err != nil {
				return err
			}

			countries := a.service.ListCountries()
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"countries": countries,
					"total":     len(countries),
				})
			}
			printCountries(cmd.OutOrStdout(), countries)
			return nil
		})
	},
}

var countryCmd = &cobra.Command{
	Use:   "country <name>",
	Short: "Prints the gold, silver and bronze counts of one country.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.load(cmd.Context(), countryURL); err != nil {
				return err
			}

			record, err := a.service.CountryDetail(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), record)
			}
			printRecord(cmd.OutOrStdout(), record)
			return nil
		})
	},
}
