package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const writeTimeoutMargin = 30 * time.Second

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Gemini language model configuration.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// OpenWeatherMap configuration.
	WeatherAPIKey    string
	WeatherEnabled   bool
	WeatherBaseURL   string
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration

	// DefaultLocation is used when a weather request carries no coordinates.
	// Nil when DEFAULT_LATITUDE/DEFAULT_LONGITUDE are unset.
	DefaultLocation *Location

	NetworkPollInterval time.Duration

	// Prediction events are published only when brokers are configured.
	KafkaBrokers         []string
	KafkaPredictionTopic string
}

// Location is a configured latitude/longitude pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Load reads configuration from environment variables, applying defaults where unset.
// The Gemini credential is required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.GeminiModel == "" {
		return nil, errors.New("GEMINI_MODEL is required")
	}
	return cfg, nil
}

// LoadWeather is Load without the Gemini requirements, for callers that only
// fetch weather.
func LoadWeather() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geminiTimeout, err := parsePositiveDuration("GEMINI_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parsePositiveDuration("OPENWEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("NETWORK_POLL_INTERVAL", "5s")
	if err != nil {
		return nil, err
	}

	defaultLocation, err := parseDefaultLocation()
	if err != nil {
		return nil, err
	}

	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	weatherEnabled := weatherKey != ""
	if v := os.Getenv("WEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: sharedcfg.EnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: geminiTimeout,

		WeatherAPIKey:    weatherKey,
		WeatherEnabled:   weatherEnabled,
		WeatherBaseURL:   sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: parseWeatherCacheSize(),
		WeatherCacheTTL:  weatherCacheTTL,

		DefaultLocation:     defaultLocation,
		NetworkPollInterval: pollInterval,

		KafkaBrokers:         brokers,
		KafkaPredictionTopic: sharedcfg.EnvOrDefault("KAFKA_PREDICTION_TOPIC", "disaster-predictions"),
	}

	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaPredictionTopic == "" {
		return nil, errors.New("KAFKA_PREDICTION_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// EventsEnabled reports whether prediction events should be published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// WriteTimeout is the HTTP write deadline, long enough for a model reply
// that takes the full GEMINI_TIMEOUT.
func (c *Config) WriteTimeout() time.Duration {
	return c.GeminiTimeout + writeTimeoutMargin
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseWeatherCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}

func parseDefaultLocation() (*Location, error) {
	latStr, lonStr := os.Getenv("DEFAULT_LATITUDE"), os.Getenv("DEFAULT_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, errors.New("DEFAULT_LATITUDE and DEFAULT_LONGITUDE must be set together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("invalid DEFAULT_LATITUDE")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, errors.New("invalid DEFAULT_LONGITUDE")
	}
	return &Location{Latitude: lat, Longitude: lon}, nil
}
