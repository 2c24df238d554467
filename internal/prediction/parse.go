package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// ParseResponse normalizes a raw model reply, decodes exactly one JSON value
// and validates it against the result schema.
func ParseResponse(raw string) (domain.PredictionResult, error) {
	dec := json.NewDecoder(strings.NewReader(Normalize(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return domain.PredictionResult{}, &domain.MalformedResponseError{Raw: raw, Cause: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.PredictionResult{}, &domain.MalformedResponseError{Raw: raw, Cause: errTrailingData}
	}

	return validateResult(v)
}

func validateResult(v any) (domain.PredictionResult, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return domain.PredictionResult{}, schemaError("response", "must be a JSON object")
	}

	likelihood, err := parseLikelihood(obj)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	score, err := parseConfidenceScore(obj)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	explanation, err := parseExplanation(obj)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	return domain.PredictionResult{
		Likelihood:      likelihood,
		ConfidenceScore: score,
		Explanation:     explanation,
	}, nil
}

func parseLikelihood(obj map[string]any) (domain.Likelihood, error) {
	raw, ok := obj["likelihood"]
	if !ok || raw == nil {
		return "", schemaError("likelihood", "is missing")
	}
	s, ok := raw.(string)
	if !ok || !domain.Likelihood(s).Valid() {
		return "", schemaError("likelihood", "must be one of Low, Moderate, High")
	}
	return domain.Likelihood(s), nil
}

func parseConfidenceScore(obj map[string]any) (int, error) {
	raw, ok := obj["confidenceScore"]
	if !ok || raw == nil {
		return 0, schemaError("confidenceScore", "is missing")
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, schemaError("confidenceScore", "must be a number")
	}
	outOfRange := schemaError("confidenceScore",
		fmt.Sprintf("must be between %d and %d", domain.MinConfidenceScore, domain.MaxConfidenceScore))
	f, err := n.Float64()
	if err != nil {
		// Only overflow reaches here; the decoder has already checked the syntax.
		return 0, outOfRange
	}
	if math.Trunc(f) != f {
		return 0, schemaError("confidenceScore", "must be an integer")
	}
	if f < domain.MinConfidenceScore || f > domain.MaxConfidenceScore {
		return 0, outOfRange
	}
	return int(f), nil
}

func parseExplanation(obj map[string]any) (string, error) {
	raw, ok := obj["explanation"]
	if !ok || raw == nil {
		return "", schemaError("explanation", "is missing")
	}
	s, ok := raw.(string)
	if !ok {
		return "", schemaError("explanation", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", schemaError("explanation", "must not be empty")
	}
	return s, nil
}

func schemaError(field, reason string) error {
	return &domain.InvalidResponseSchemaError{Field: field, Reason: reason}
}
