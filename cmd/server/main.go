package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/connectivity"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/location"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/prediction"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	model := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout, logger)
	network := connectivity.InterfaceStatus{}
	probe := connectivity.NewProbe(model, network, logger, metrics)
	tracker := connectivity.NewTracker(metrics)
	watcher := connectivity.NewWatcher(probe, network, tracker, cfg.NetworkPollInterval, logger)
	pipeline := prediction.New(model, probe, tracker, logger, metrics)

	opts := httpadapter.APIOptions{
		Predictor: pipeline,
		Board:     prediction.NewBoard(nil),
		Locator:   location.NewResolver(defaultCoordinates(cfg), domain.ErrLocationPermission),
		Tracker:   tracker,
		Checker:   probe,
	}

	// Weather is feature-flagged via WEATHER_ENABLED / OPENWEATHER_API_KEY.
	if cfg.WeatherEnabled {
		client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, logger, metrics)
		opts.Weather = openweather.NewCachedFetcher(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("weather enabled", "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL)
	} else {
		logger.Info("weather disabled")
	}

	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		opts.Events = writer
		logger.Info("prediction events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPredictionTopic)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.WriteTimeout(), httpadapter.NewAPI(opts, logger), tracker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func defaultCoordinates(cfg *config.Config) *domain.Coordinates {
	if cfg.DefaultLocation == nil {
		return nil
	}
	return &domain.Coordinates{
		Latitude:  cfg.DefaultLocation.Latitude,
		Longitude: cfg.DefaultLocation.Longitude,
	}
}
