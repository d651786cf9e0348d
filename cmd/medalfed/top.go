package main

import (
	"github.com/pevans/medalfed/medals"
	"github.com/spf13/cobra"
)

var topK int

func init() {
	topCmd.Flags().IntVarP(&topK, "k", "k", 0, "Number of countries to show (default: top_k preference)")
	rootCmd.AddCommand(topCmd)
}

type topOutput struct {
	URL     string            `json:"url"`
	K       int               `json:"k"`
	Records medals.RankedView `json:"records"`
}

var topCmd = &cobra.Command{
	Use:   "top [url]",
	Short: "Prints the countries with the most medals in total.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			summary, err := a.load(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			k := a.preferences().TopK
			if cmd.Flags().Changed("k") {
				k = topK
			}

			view, err := a.service.TopByTotal(k)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), topOutput{URL: summary.URL, K: k, Records: view})
			}
			printRanking(cmd.OutOrStdout(), view)
			return nil
		})
	},
}
