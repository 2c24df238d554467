package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/disaster-risk-service/internal/formatter"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // Overwritten at build time
)

type rootOptions struct {
	output  string
	verbose bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var silent silentError
		if !errors.As(err, &silent) {
			printError(err.Error())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "disaster-predict",
		Short: "AI-assisted disaster risk predictions",
		Long: `disaster-predict sends weather and geological readings to a generative
language model and prints a Low/Moderate/High risk classification for
cyclones, earthquakes and cloudbursts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !formatter.ValidFormat(opts.output) {
				return fmt.Errorf("invalid output format %q (want human, json or yaml)", opts.output)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newPredictCmd(opts),
		newWeatherCmd(opts),
		newStatusCmd(opts),
		newCategoriesCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "disaster-predict version %s\n", version)
		},
	}
}

// silentError makes main exit non-zero without printing again.
type silentError struct{ err error }

func (e silentError) Error() string { return e.err.Error() }

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}
