package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/gemini"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/connectivity"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/formatter"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/prediction"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "predict CATEGORY",
		Short: "Predict the likelihood of a disaster",
		Long: `Send readings for one disaster category to the model and print its
classification. Run 'disaster-predict categories' to list every field.

Examples:
  # Cyclone risk for Miami
  disaster-predict predict cyclone --city Miami --seaSurfaceTemp 29.5 \
    --pressure 990 --windSpeed 140 --humidity 85

  # Earthquake risk without optional readings, as JSON
  disaster-predict predict earthquake --city Lima -o json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts, args[0], city)
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City name")
	for _, f := range allFields() {
		cmd.Flags().String(f.Name, "", fmt.Sprintf("%s (%s)", f.Label, f.Unit))
	}

	return cmd
}

func runPredict(cmd *cobra.Command, opts *rootOptions, categoryArg, city string) error {
	category, err := domain.ParseCategory(categoryArg)
	if err != nil {
		return err
	}

	input, err := domain.ParseInput(category, rawInput(cmd.Flags(), category, city))
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewCLILogger(os.Stderr, opts.verbose)
	metrics := observability.NewMetrics()

	model := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout, logger)
	probe := connectivity.NewProbe(model, connectivity.InterfaceStatus{}, logger, metrics)
	pipeline := prediction.New(model, probe, connectivity.NewTracker(metrics), logger, metrics)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = fmt.Sprintf(" Analyzing %s risk for %s...", category, input.City)
	s.Start()

	result, err := pipeline.Predict(cmd.Context(), category, input)
	s.Stop()
	if err != nil {
		return err
	}
	printSuccess("Prediction complete")

	return formatter.Prediction(cmd.OutOrStdout(), category, input.City, result, opts.output)
}

// allFields returns every distinct field across categories, in first-seen order.
func allFields() []domain.Field {
	seen := make(map[string]bool)
	var out []domain.Field
	for _, c := range domain.Categories() {
		for _, f := range c.Fields() {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			if f.Name == "pressure" {
				f.Label = "Air/Atmospheric Pressure"
			}
			out = append(out, f)
		}
	}
	return out
}

func categoryNames() []string {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, string(c))
	}
	return names
}

// rawInput collects the category's fields that were set on the command line.
func rawInput(flags *pflag.FlagSet, category domain.Category, city string) map[string]any {
	raw := map[string]any{"city": city}
	for _, f := range category.Fields() {
		if flag := flags.Lookup(f.Name); flag != nil && flag.Changed {
			raw[f.Name] = flag.Value.String()
		}
	}
	return raw
}
