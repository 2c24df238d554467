package main

import (
	"errors"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/formatter"
	"github.com/couchcryptid/disaster-risk-service/internal/location"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/spf13/cobra"
)

func newWeatherCmd(opts *rootOptions) *cobra.Command {
	var lat, lon string

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show current weather for a location",
		Long: `Fetch current conditions from OpenWeatherMap. Coordinates come from
--lat/--lon, or from DEFAULT_LATITUDE/DEFAULT_LONGITUDE when the flags are omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWeather()
			if err != nil {
				return err
			}
			if !cfg.WeatherEnabled {
				return errors.New("weather is not enabled: set OPENWEATHER_API_KEY")
			}

			var fallback *domain.Coordinates
			if cfg.DefaultLocation != nil {
				fallback = &domain.Coordinates{Latitude: cfg.DefaultLocation.Latitude, Longitude: cfg.DefaultLocation.Longitude}
			}
			coords, err := location.NewResolver(fallback, domain.ErrGeolocationUnsupported).Resolve(lat, lon)
			if err != nil {
				return err
			}

			logger := observability.NewCLILogger(os.Stderr, opts.verbose)
			client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, logger, observability.NewMetrics())

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Writer = os.Stderr
			s.Suffix = " Fetching weather..."
			s.Start()
			record, err := client.FetchCurrentWeather(cmd.Context(), coords)
			s.Stop()
			if err != nil {
				return err
			}

			return formatter.Weather(cmd.OutOrStdout(), record, opts.output)
		},
	}

	cmd.Flags().StringVar(&lat, "lat", "", "Latitude")
	cmd.Flags().StringVar(&lon, "lon", "", "Longitude")

	return cmd
}
