package domain

import "strings"

// Category identifies which disaster a prediction request is about.
type Category string

const (
	CategoryCyclone    Category = "cyclone"
	CategoryEarthquake Category = "earthquake"
	CategoryCloudburst Category = "cloudburst"
)

// Categories lists the supported categories in display order.
func Categories() []Category {
	return []Category{CategoryCyclone, CategoryEarthquake, CategoryCloudburst}
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryFields[c]; !ok {
		return "", &ValidationError{Code: CodeUnknownCategory, Field: s}
	}
	return c, nil
}

// Title returns the display name, e.g. "Cyclone".
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Fields returns the input fields for the category, excluding the city.
func (c Category) Fields() []Field {
	return categoryFields[c]
}

// Field describes one numeric input of a category.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label" yaml:"label"`
	Unit     string   `json:"unit" yaml:"unit"`
	Required bool     `json:"required" yaml:"required"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// InRange reports whether v satisfies the field's bounds.
func (f Field) InRange(v float64) bool {
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

func bound(v float64) *float64 { return &v }

var (
	humidityField = Field{Name: "humidity", Label: "Humidity", Unit: "%", Required: true, Min: bound(0), Max: bound(100)}

	categoryFields = map[Category][]Field{
		CategoryCyclone: {
			{Name: "seaSurfaceTemp", Label: "Sea Surface Temperature", Unit: "°C", Required: true},
			{Name: "pressure", Label: "Air Pressure", Unit: "hPa", Required: true},
			{Name: "windSpeed", Label: "Wind Speed", Unit: "km/h", Required: true},
			humidityField,
		},
		CategoryEarthquake: {
			{Name: "seismicActivity", Label: "Recent Seismic Activity", Unit: "magnitude"},
			{Name: "tectonicMovement", Label: "Tectonic Plate Movement", Unit: "mm/year"},
		},
		CategoryCloudburst: {
			{Name: "precipitationRate", Label: "Precipitation Rate", Unit: "mm/hour", Required: true},
			{Name: "cloudDensity", Label: "Cloud Density", Unit: "g/m³", Required: true},
			{Name: "pressure", Label: "Atmospheric Pressure", Unit: "hPa", Required: true},
			humidityField,
		},
	}
)
