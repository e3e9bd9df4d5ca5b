// Package cmd contains the refbatch command-line interface.
package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errPartialFailure marks a run that finished but had per-pair failures.
var errPartialFailure = errors.New("batch finished with failures")

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "refbatch",
	Short:         "Batch perceptual comparison of rendered images against references",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI. Exit codes: 0 for a clean run, 1 for configuration or
// usage errors, 2 for a run that finished with per-pair failures.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errPartialFailure) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("refbatch failed")
		os.Exit(1)
	}
}
