package prediction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/connectivity"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/prompt"
)

// Pipeline turns validated category inputs into model classifications.
type Pipeline struct {
	model   domain.Model
	checker connectivity.Checker
	tracker *connectivity.Tracker
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. The tracker gates every request; checker is used
// to probe once when the tracker has never been probed.
func New(model domain.Model, checker connectivity.Checker, tracker *connectivity.Tracker, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		model:   model,
		checker: checker,
		tracker: tracker,
		logger:  logger,
		metrics: metrics,
	}
}

// Predict validates input, calls the model once and returns the parsed
// result. Every returned error is one of the domain error types and is safe
// to show to an end user.
func (p *Pipeline) Predict(ctx context.Context, category domain.Category, input domain.PredictionInput) (domain.PredictionResult, error) {
	result, err := p.predict(ctx, category, input)
	p.metrics.PredictionRequests.WithLabelValues(string(category), outcomeLabel(err)).Inc()
	if err != nil {
		p.logger.Warn("prediction failed", "category", category, "city", input.City, "error", err)
		return domain.PredictionResult{}, err
	}
	p.logger.Info("prediction completed",
		"category", category,
		"city", input.City,
		"likelihood", result.Likelihood,
		"confidence", result.ConfidenceScore,
	)
	return result, nil
}

func (p *Pipeline) predict(ctx context.Context, category domain.Category, input domain.PredictionInput) (domain.PredictionResult, error) {
	text, err := prompt.Build(category, input)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	if err := p.ensureAvailable(ctx); err != nil {
		return domain.PredictionResult{}, err
	}

	start := time.Now()
	raw, err := p.model.Generate(ctx, text)
	p.metrics.ModelDuration.WithLabelValues("prediction").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.PredictionResult{}, &domain.TransportError{Cause: err}
	}

	p.logger.Debug("model reply", "category", category, "raw", raw, "normalized", Normalize(raw))
	return ParseResponse(raw)
}

// ensureAvailable probes synchronously when no state has been recorded yet
// and refuses to dispatch while the last probe failed. A probe cut short by
// the caller's context says nothing about the service and is not recorded.
func (p *Pipeline) ensureAvailable(ctx context.Context) error {
	state, probed := p.tracker.State()
	if !probed {
		state = p.checker.CheckService(ctx)
		if err := ctx.Err(); err != nil {
			return &domain.TransportError{Cause: err}
		}
		p.tracker.Set(state)
	}
	if state.Status == domain.StatusFailed {
		return &domain.ServiceUnavailableError{Reason: state.Reason}
	}
	return nil
}

func outcomeLabel(err error) string {
	var (
		validation  *domain.ValidationError
		unavailable *domain.ServiceUnavailableError
		transport   *domain.TransportError
		malformed   *domain.MalformedResponseError
		schema      *domain.InvalidResponseSchemaError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &unavailable):
		return "unavailable"
	case errors.As(err, &transport):
		return "transport"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &schema):
		return "schema"
	default:
		return "error"
	}
}
