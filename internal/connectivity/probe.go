package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// ProbePrompt is the fixed message sent to the model to confirm it answers.
const ProbePrompt = "Hello! Please respond with 'API is working!' if you receive this message."

const expectedReply = "API is working"

// User-facing failure reasons.
const (
	ReasonOffline           = "No internet connection"
	ReasonInvalidCredential = "Invalid API key - please check your configuration"
	ReasonNetwork           = "Network connection issue - please check your internet connection"
	ReasonFailed            = "API connection failed - please try again later"
)

// NetworkStatus reports whether the host currently has a usable network.
type NetworkStatus interface {
	Online() bool
}

// Checker runs a connectivity check against the model service.
type Checker interface {
	CheckService(ctx context.Context) domain.ConnectivityState
}

// Probe checks that the model service is reachable and accepts the configured
// credential.
type Probe struct {
	model   domain.Model
	network NetworkStatus
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewProbe creates a Probe that sends ProbePrompt through model.
func NewProbe(model domain.Model, network NetworkStatus, logger *slog.Logger, metrics *observability.Metrics) *Probe {
	return &Probe{model: model, network: network, logger: logger, metrics: metrics}
}

// CheckService sends the probe prompt and classifies the outcome. It never
// returns the Checking state and makes no model call while offline.
func (p *Probe) CheckService(ctx context.Context) domain.ConnectivityState {
	if !p.network.Online() {
		p.metrics.Probes.WithLabelValues("offline").Inc()
		return domain.Failed(ReasonOffline)
	}

	start := time.Now()
	reply, err := p.model.Generate(ctx, ProbePrompt)
	p.metrics.ModelDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())

	if err != nil {
		result, reason := classify(err)
		p.logger.Warn("connectivity probe failed", "result", result, "error", err)
		p.metrics.Probes.WithLabelValues(result).Inc()
		return domain.Failed(reason)
	}

	if !strings.Contains(reply, expectedReply) {
		p.logger.Warn("connectivity probe got unexpected reply", "reply", reply)
		p.metrics.Probes.WithLabelValues("failed").Inc()
		return domain.Failed(ReasonFailed)
	}

	p.metrics.Probes.WithLabelValues("connected").Inc()
	return domain.Connected()
}

// classify maps a model error to a metric label and a user-facing reason.
func classify(err error) (result, reason string) {
	if errors.Is(err, domain.ErrCredentialRejected) {
		return "credential", ReasonInvalidCredential
	}
	if isNetworkError(err) {
		return "network", ReasonNetwork
	}
	return "failed", ReasonFailed
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
