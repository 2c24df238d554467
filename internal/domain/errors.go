package domain

import (
	"errors"
	"fmt"
)

// ErrCredentialRejected is wrapped by model adapters when the provider refuses
// the configured API key.
var ErrCredentialRejected = errors.New("credential rejected")

// Validation error codes.
const (
	CodeMissingCity          = "MissingCity"
	CodeMissingRequiredField = "MissingRequiredField"
	CodeInvalidFieldType     = "InvalidFieldType"
	CodeFieldOutOfRange      = "FieldOutOfRange"
	CodeUnknownCategory      = "UnknownCategory"
)

// ValidationError reports bad or missing user input. It is raised before any
// request leaves the process.
type ValidationError struct {
	Code  string
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	name := e.Label
	if name == "" {
		name = e.Field
	}
	switch e.Code {
	case CodeMissingCity:
		return "City is required"
	case CodeMissingRequiredField:
		return fmt.Sprintf("%s is required", name)
	case CodeInvalidFieldType:
		return fmt.Sprintf("%s must be a number", name)
	case CodeFieldOutOfRange:
		return fmt.Sprintf("%s is out of range", name)
	case CodeUnknownCategory:
		return fmt.Sprintf("Invalid disaster type %q", e.Field)
	default:
		return "Invalid input"
	}
}

func missingField(f Field) *ValidationError {
	return &ValidationError{Code: CodeMissingRequiredField, Field: f.Name, Label: f.Label}
}

// ServiceUnavailableError is returned when the last connectivity probe failed.
type ServiceUnavailableError struct {
	Reason string
}

func (e *ServiceUnavailableError) Error() string {
	if e.Reason == "" {
		return "Prediction service is unavailable"
	}
	return "Prediction service is unavailable: " + e.Reason
}

// TransportError wraps a network or provider fault from the model call.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "Failed to get prediction. Please try again."
}

func (e *TransportError) Unwrap() error { return e.Cause }

// MalformedResponseError is returned when the model reply is not JSON. Raw
// holds the reply exactly as received.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return "Failed to parse AI response. Please try again."
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// InvalidResponseSchemaError is returned when the reply is JSON but violates
// the result schema. Field names the first offending field.
type InvalidResponseSchemaError struct {
	Field  string
	Reason string
}

func (e *InvalidResponseSchemaError) Error() string {
	return fmt.Sprintf("Invalid AI response: %s %s", e.Field, e.Reason)
}

// LocationUnavailableError is returned when no coordinates can be resolved.
type LocationUnavailableError struct {
	Message string
}

func (e *LocationUnavailableError) Error() string { return e.Message }

var (
	// ErrLocationPermission means the caller did not share a location.
	ErrLocationPermission = &LocationUnavailableError{Message: "Please enable location access to view weather data"}
	// ErrGeolocationUnsupported means no location source exists at all.
	ErrGeolocationUnsupported = &LocationUnavailableError{Message: "Geolocation is not supported on this host"}
)

// WeatherFetchError is returned when the weather provider call fails.
// StatusCode is zero for transport and decode failures.
type WeatherFetchError struct {
	StatusCode int
	Cause      error
}

func (e *WeatherFetchError) Error() string {
	return "Failed to fetch weather data"
}

func (e *WeatherFetchError) Unwrap() error { return e.Cause }
