package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

const unknownCondition = "Unknown"

// Client implements domain.WeatherFetcher using the OpenWeatherMap
// current-weather endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchCurrentWeather returns current conditions at coords in metric units.
// Every failure is a *domain.WeatherFetchError.
func (c *Client) FetchCurrentWeather(ctx context.Context, coords domain.Coordinates) (domain.WeatherRecord, error) {
	record, err := c.fetch(ctx, coords)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		c.logger.Warn("weather fetch failed", "lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		return domain.WeatherRecord{}, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return record, nil
}

func (c *Client) fetch(ctx context.Context, coords domain.Coordinates) (domain.WeatherRecord, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherRecord{}, &domain.WeatherFetchError{Cause: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherRecord{}, &domain.WeatherFetchError{Cause: fmt.Errorf("current weather request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherRecord{}, &domain.WeatherFetchError{
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body),
		}
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherRecord{}, &domain.WeatherFetchError{Cause: fmt.Errorf("decode response: %w", err)}
	}

	return owResp.toRecord(), nil
}

// OpenWeatherMap API response types.

type response struct {
	Name    string      `json:"name"`
	Main    mainBlock   `json:"main"`
	Wind    windBlock   `json:"wind"`
	Rain    rainBlock   `json:"rain"`
	Weather []condition `json:"weather"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Pressure float64 `json:"pressure"`
}

type windBlock struct {
	Speed float64 `json:"speed"` // m/s with units=metric
}

type rainBlock struct {
	OneHour float64 `json:"1h"`
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (r response) toRecord() domain.WeatherRecord {
	cond := unknownCondition
	if len(r.Weather) > 0 && r.Weather[0].Main != "" {
		cond = r.Weather[0].Main
	}
	return domain.WeatherRecord{
		City:            r.Name,
		Temperature:     int(math.Round(r.Main.Temp)),
		Humidity:        int(math.Round(r.Main.Humidity)),
		WindSpeedKmh:    int(math.Round(r.Wind.Speed * 3.6)),
		Pressure:        int(math.Round(r.Main.Pressure)),
		PrecipitationMm: r.Rain.OneHour,
		Condition:       cond,
	}
}
