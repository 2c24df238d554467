package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Likelihood is the coarse risk level returned by the model.
type Likelihood string

const (
	LikelihoodLow      Likelihood = "Low"
	LikelihoodModerate Likelihood = "Moderate"
	LikelihoodHigh     Likelihood = "High"
)

// Valid reports whether l is one of the three accepted levels. The match is
// exact and case-sensitive.
func (l Likelihood) Valid() bool {
	switch l {
	case LikelihoodLow, LikelihoodModerate, LikelihoodHigh:
		return true
	}
	return false
}

// Confidence score bounds, inclusive.
const (
	MinConfidenceScore = 60
	MaxConfidenceScore = 100
)

// PredictionResult is a validated model classification.
type PredictionResult struct {
	Likelihood      Likelihood `json:"likelihood" yaml:"likelihood"`
	ConfidenceScore int        `json:"confidenceScore" yaml:"confidenceScore"`
	Explanation     string     `json:"explanation" yaml:"explanation"`
}

// Model is a text-completion provider. Implementations hold the model
// identifier and credential.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PredictionEvent records the outcome of one prediction request.
type PredictionEvent struct {
	ID         string            `json:"id"`
	Category   Category          `json:"category"`
	City       string            `json:"city"`
	Result     *PredictionResult `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewPredictionEvent builds an event from a Predict outcome. Exactly one of
// result or err is meaningful.
func NewPredictionEvent(category Category, city string, result PredictionResult, err error) PredictionEvent {
	ev := PredictionEvent{
		ID:         uuid.NewString(),
		Category:   category,
		City:       city,
		OccurredAt: clock.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
		return ev
	}
	ev.Result = &result
	return ev
}

// Outcome is "success" or "error".
func (e PredictionEvent) Outcome() string {
	if e.Error != "" {
		return "error"
	}
	return "success"
}
