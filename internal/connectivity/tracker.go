package connectivity

import (
	"context"
	"errors"
	"sync"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// Tracker holds the latest connectivity state. It starts in the never-probed
// state, which reads as Checking.
type Tracker struct {
	mu      sync.RWMutex
	state   domain.ConnectivityState
	probed  bool
	metrics *observability.Metrics
}

// NewTracker creates a Tracker in the never-probed state.
func NewTracker(metrics *observability.Metrics) *Tracker {
	return &Tracker{state: domain.Checking(), metrics: metrics}
}

// State returns the current state and whether any state has been recorded
// since creation or the last Reset.
func (t *Tracker) State() (domain.ConnectivityState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state, t.probed
}

// Set records a new state. Concurrent writers race; the last write wins.
func (t *Tracker) Set(state domain.ConnectivityState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	t.probed = true

	// The gauge is updated under the lock so it never disagrees with State.
	if state.Status == domain.StatusConnected {
		t.metrics.ConnectivityStatus.Set(1)
	} else {
		t.metrics.ConnectivityStatus.Set(0)
	}
}

// Reset returns the tracker to the never-probed state so the next prediction
// probes again.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = domain.Checking()
	t.probed = false
	t.metrics.ConnectivityStatus.Set(0)
}

// CheckReadiness returns nil once the model service has answered a probe.
func (t *Tracker) CheckReadiness(_ context.Context) error {
	state, probed := t.State()
	if !probed {
		return errors.New("model service has not been checked yet")
	}
	switch state.Status {
	case domain.StatusConnected:
		return nil
	case domain.StatusFailed:
		return errors.New("model service unavailable: " + state.Reason)
	default:
		return errors.New("model service check in progress")
	}
}
