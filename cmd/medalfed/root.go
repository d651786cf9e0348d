package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "medalfed",
	Short: "medalfed fetches an Olympic medal table and prints rankings from it.",
	Long: `medalfed fetches an Olympic medal table, parses per-country counts and
prints rankings from it. Each command loads the table fresh; nothing but the
load history and preferences is kept between runs.

Environment Variables:
  MEDALFED_HISTORY_DSN  Path to history and preferences database (default: history.db)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().
			Timestamp().
			Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log load progress to stderr")
}
