package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PredictionInput is the typed form of one prediction request. A field is
// present iff its name is a key in Values.
type PredictionInput struct {
	City   string
	Values map[string]float64
}

// Value returns a field value and whether it was supplied.
func (in PredictionInput) Value(name string) (float64, bool) {
	v, ok := in.Values[name]
	return v, ok
}

// ParseInput converts raw field values into a PredictionInput for the category.
// Raw values may be strings (form posts, flags), JSON numbers, float64 or nil.
// Unknown keys are ignored.
func ParseInput(category Category, raw map[string]any) (PredictionInput, error) {
	city, err := parseCity(raw["city"])
	if err != nil {
		return PredictionInput{}, err
	}

	in := PredictionInput{City: city, Values: make(map[string]float64)}
	for _, f := range category.Fields() {
		v, present, err := parseNumber(f, raw[f.Name])
		if err != nil {
			return PredictionInput{}, err
		}
		if !present {
			if f.Required {
				return PredictionInput{}, missingField(f)
			}
			continue
		}
		if !f.InRange(v) {
			return PredictionInput{}, &ValidationError{Code: CodeFieldOutOfRange, Field: f.Name, Label: f.Label}
		}
		in.Values[f.Name] = v
	}
	return in, nil
}

func parseCity(v any) (string, error) {
	switch c := v.(type) {
	case nil:
		return "", &ValidationError{Code: CodeMissingCity, Field: "city"}
	case string:
		c = strings.TrimSpace(c)
		if c == "" {
			return "", &ValidationError{Code: CodeMissingCity, Field: "city"}
		}
		return c, nil
	default:
		return "", &ValidationError{Code: CodeInvalidFieldType, Field: "city", Label: "City"}
	}
}

// parseNumber returns the numeric value of v. Blank strings and nil count as
// absent.
func parseNumber(f Field, v any) (float64, bool, error) {
	wrongType := &ValidationError{Code: CodeInvalidFieldType, Field: f.Name, Label: f.Label}

	var n float64
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, wrongType
		}
		n = parsed
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false, wrongType
		}
		n = parsed
	case float64:
		n = x
	case int:
		n = float64(x)
	default:
		return 0, false, wrongType
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, wrongType
	}
	return n, true, nil
}
