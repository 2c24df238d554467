package main

import (
	"errors"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/gemini"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/connectivity"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/formatter"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the prediction service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewCLILogger(os.Stderr, opts.verbose)
			metrics := observability.NewMetrics()
			model := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout, logger)
			probe := connectivity.NewProbe(model, connectivity.InterfaceStatus{}, logger, metrics)

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Writer = os.Stderr
			s.Suffix = " Checking prediction service..."
			s.Start()
			state := probe.CheckService(cmd.Context())
			s.Stop()

			if err := formatter.Status(cmd.OutOrStdout(), state, opts.output); err != nil {
				return err
			}
			if state.Status == domain.StatusFailed {
				return silentError{errors.New(state.Reason)}
			}
			return nil
		},
	}
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List disaster categories and their input fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter.Categories(cmd.OutOrStdout(), domain.Categories(), opts.output)
		},
	}
}
