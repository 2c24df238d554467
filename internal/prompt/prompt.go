// Package prompt renders category-specific instructions for the language model.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// OutputContract ends every prediction prompt. It is identical across
// categories so replies can be parsed by one routine.
const OutputContract = `You must respond with valid JSON in this exact format:
{
  "likelihood": "Low|Moderate|High",
  "confidenceScore": <number between 60-100>,
  "explanation": "<detailed explanation of the risk assessment>"
}

Do not include any other text in your response, only the JSON object.`

type template struct {
	intro   string // %s is the city
	subject string
}

var templates = map[domain.Category]template{
	domain.CategoryCyclone: {
		intro:   "You are a disaster prediction AI. Based on the following weather conditions in %s:",
		subject: "a cyclone formation",
	},
	domain.CategoryEarthquake: {
		intro:   "You are a disaster prediction AI. For the city of %s, considering:",
		subject: "an earthquake",
	},
	domain.CategoryCloudburst: {
		intro:   "You are a disaster prediction AI. Based on the following atmospheric conditions in %s:",
		subject: "a cloudburst",
	},
}

// Validate checks that input carries everything the category's prompt needs.
func Validate(category domain.Category, input domain.PredictionInput) error {
	if _, ok := templates[category]; !ok {
		return &domain.ValidationError{Code: domain.CodeUnknownCategory, Field: string(category)}
	}
	if strings.TrimSpace(input.City) == "" {
		return &domain.ValidationError{Code: domain.CodeMissingCity, Field: "city"}
	}
	for _, f := range category.Fields() {
		if !f.Required {
			continue
		}
		if _, ok := input.Value(f.Name); !ok {
			return &domain.ValidationError{Code: domain.CodeMissingRequiredField, Field: f.Name, Label: f.Label}
		}
	}
	return nil
}

// Build renders the prompt for category. Optional fields that are absent are
// left out of the condition list.
func Build(category domain.Category, input domain.PredictionInput) (string, error) {
	if err := Validate(category, input); err != nil {
		return "", err
	}
	tmpl := templates[category]

	var sb strings.Builder
	fmt.Fprintf(&sb, tmpl.intro, strings.TrimSpace(input.City))
	sb.WriteString("\n")
	for _, f := range category.Fields() {
		v, ok := input.Value(f.Name)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", f.Label, withUnit(v, f.Unit))
	}
	fmt.Fprintf(&sb, "\nAnalyze the likelihood of %s. ", tmpl.subject)
	sb.WriteString(OutputContract)
	return sb.String(), nil
}

func withUnit(v float64, unit string) string {
	n := strconv.FormatFloat(v, 'f', -1, 64)
	switch unit {
	case "", "%", "°C":
		return n + unit
	default:
		return n + " " + unit
	}
}
