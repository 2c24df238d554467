// Package location resolves the coordinates used for weather lookups from
// caller-supplied values or a configured fallback.
package location

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// ErrInvalidCoordinates is returned when supplied coordinates do not parse or
// are out of range.
var ErrInvalidCoordinates = &domain.LocationUnavailableError{Message: "Invalid coordinates"}

// Resolver picks coordinates for a weather request.
type Resolver struct {
	fallback *domain.Coordinates
	missing  *domain.LocationUnavailableError
}

// NewResolver creates a Resolver. fallback may be nil. missing is returned
// when neither the caller nor the fallback supplies coordinates.
func NewResolver(fallback *domain.Coordinates, missing *domain.LocationUnavailableError) *Resolver {
	if missing == nil {
		missing = domain.ErrLocationPermission
	}
	return &Resolver{fallback: fallback, missing: missing}
}

// Resolve parses lat and lon. When both are blank it uses the fallback.
func (r *Resolver) Resolve(lat, lon string) (domain.Coordinates, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		if r.fallback != nil {
			return *r.fallback, nil
		}
		return domain.Coordinates{}, r.missing
	}
	if lat == "" || lon == "" {
		return domain.Coordinates{}, ErrInvalidCoordinates
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, ErrInvalidCoordinates
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return domain.Coordinates{}, ErrInvalidCoordinates
	}
	c := domain.Coordinates{Latitude: la, Longitude: lo}
	if !c.Valid() {
		return domain.Coordinates{}, ErrInvalidCoordinates
	}
	return c, nil
}
