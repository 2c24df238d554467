package domain

import (
	"context"
	"time"
)

// Coordinates is a WGS-84 position.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the coordinates are within range.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// WeatherRecord is the current weather at a location, in display units.
type WeatherRecord struct {
	City            string  `json:"city" yaml:"city"`
	Temperature     int     `json:"temperature" yaml:"temperature"`
	Humidity        int     `json:"humidity" yaml:"humidity"`
	WindSpeedKmh    int     `json:"windSpeed" yaml:"windSpeed"`
	Pressure        int     `json:"pressure" yaml:"pressure"`
	PrecipitationMm float64 `json:"precipitation" yaml:"precipitation"`
	Condition       string  `json:"condition" yaml:"condition"`
}

// WeatherFetcher retrieves current conditions for a position.
type WeatherFetcher interface {
	FetchCurrentWeather(ctx context.Context, coords Coordinates) (WeatherRecord, error)
}

// ConnectivityStatus is the coarse state of the model service.
type ConnectivityStatus string

const (
	StatusChecking  ConnectivityStatus = "checking"
	StatusConnected ConnectivityStatus = "connected"
	StatusFailed    ConnectivityStatus = "failed"
)

// ConnectivityState is the outcome of the latest connectivity probe. Reason is
// only set for failures and is shown to users verbatim.
type ConnectivityState struct {
	Status    ConnectivityStatus `json:"status" yaml:"status"`
	Reason    string             `json:"reason,omitempty" yaml:"reason,omitempty"`
	CheckedAt time.Time          `json:"checked_at,omitzero" yaml:"checked_at,omitempty"`
}

// Checking is the state before any probe has completed.
func Checking() ConnectivityState {
	return ConnectivityState{Status: StatusChecking}
}

// Connected returns a successful probe state stamped with the current time.
func Connected() ConnectivityState {
	return ConnectivityState{Status: StatusConnected, CheckedAt: clock.Now().UTC()}
}

// Failed returns a failed probe state with a user-facing reason.
func Failed(reason string) ConnectivityState {
	return ConnectivityState{Status: StatusFailed, Reason: reason, CheckedAt: clock.Now().UTC()}
}
