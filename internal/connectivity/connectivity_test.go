package connectivity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeModel struct {
	reply string
	err   error
	calls atomic.Int32
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	if prompt != ProbePrompt {
		return "", fmt.Errorf("unexpected prompt %q", prompt)
	}
	return m.reply, m.err
}

type fakeNetwork struct {
	online atomic.Bool
}

func newFakeNetwork(online bool) *fakeNetwork {
	n := &fakeNetwork{}
	n.online.Store(online)
	return n
}

func (n *fakeNetwork) Online() bool { return n.online.Load() }

type fakeChecker struct {
	state domain.ConnectivityState
	calls atomic.Int32
}

func (c *fakeChecker) CheckService(context.Context) domain.ConnectivityState {
	c.calls.Add(1)
	return c.state
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Probe ---

func TestProbe_Offline_NoModelCall(t *testing.T) {
	model := &fakeModel{reply: "API is working!"}
	metrics := observability.NewMetricsForTesting()
	p := NewProbe(model, newFakeNetwork(false), discardLogger(), metrics)

	state := p.CheckService(context.Background())

	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Equal(t, "No internet connection", state.Reason)
	assert.Equal(t, int32(0), model.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Probes.WithLabelValues("offline")))
}

func TestProbe_Connected(t *testing.T) {
	model := &fakeModel{reply: "API is working! Happy to help."}
	p := NewProbe(model, newFakeNetwork(true), discardLogger(), observability.NewMetricsForTesting())

	state := p.CheckService(context.Background())

	assert.Equal(t, domain.StatusConnected, state.Status)
	assert.Empty(t, state.Reason)
	assert.Equal(t, int32(1), model.calls.Load())
}

func TestProbe_FailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		model  *fakeModel
		reason string
	}{
		{
			name:   "credential rejected",
			model:  &fakeModel{err: fmt.Errorf("generate content: %w", domain.ErrCredentialRejected)},
			reason: ReasonInvalidCredential,
		},
		{
			name:   "network error",
			model:  &fakeModel{err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
			reason: ReasonNetwork,
		},
		{
			name:   "timeout",
			model:  &fakeModel{err: fmt.Errorf("post: %w", timeoutError{})},
			reason: ReasonNetwork,
		},
		{
			name:   "deadline exceeded",
			model:  &fakeModel{err: context.DeadlineExceeded},
			reason: ReasonNetwork,
		},
		{
			name:   "provider error",
			model:  &fakeModel{err: errors.New("status 500")},
			reason: ReasonFailed,
		},
		{
			name:   "unexpected reply",
			model:  &fakeModel{reply: "Hello there"},
			reason: ReasonFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProbe(tt.model, newFakeNetwork(true), discardLogger(), observability.NewMetricsForTesting())
			state := p.CheckService(context.Background())
			assert.Equal(t, domain.StatusFailed, state.Status)
			assert.Equal(t, tt.reason, state.Reason)
		})
	}
}

// --- Tracker ---

func TestTracker_Lifecycle(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tr := NewTracker(metrics)

	state, probed := tr.State()
	assert.False(t, probed)
	assert.Equal(t, domain.StatusChecking, state.Status)
	require.Error(t, tr.CheckReadiness(context.Background()))

	tr.Set(domain.Connected())
	state, probed = tr.State()
	assert.True(t, probed)
	assert.Equal(t, domain.StatusConnected, state.Status)
	require.NoError(t, tr.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConnectivityStatus))

	tr.Set(domain.Failed(ReasonOffline))
	err := tr.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ReasonOffline)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ConnectivityStatus))

	tr.Reset()
	_, probed = tr.State()
	assert.False(t, probed)
}

func TestTracker_GaugeMatchesStateUnderConcurrentWriters(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tr := NewTracker(metrics)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 3 {
			case 0:
				tr.Set(domain.Connected())
			case 1:
				tr.Set(domain.Failed(ReasonNetwork))
			default:
				tr.Reset()
			}
		}()
	}
	wg.Wait()

	state, _ := tr.State()
	want := 0.0
	if state.Status == domain.StatusConnected {
		want = 1.0
	}
	assert.Equal(t, want, testutil.ToFloat64(metrics.ConnectivityStatus))
}

// --- Watcher ---

func TestWatcher_Transitions(t *testing.T) {
	fc := clockwork.NewFakeClock()
	network := newFakeNetwork(true)
	checker := &fakeChecker{state: domain.ConnectivityState{Status: domain.StatusConnected}}
	tracker := NewTracker(observability.NewMetricsForTesting())

	w := NewWatcher(checker, network, tracker, time.Second, discardLogger())
	w.clock = fc

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	state, probed := tracker.State()
	assert.True(t, probed)
	assert.Equal(t, domain.StatusConnected, state.Status)
	assert.Equal(t, int32(1), checker.calls.Load())

	// online -> offline
	network.online.Store(false)
	fc.Advance(time.Second)
	assert.Eventually(t, func() bool {
		s, _ := tracker.State()
		return s.Status == domain.StatusFailed && s.Reason == ReasonOffline
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), checker.calls.Load())

	// offline -> online re-probes
	network.online.Store(true)
	fc.Advance(time.Second)
	assert.Eventually(t, func() bool {
		s, _ := tracker.State()
		return s.Status == domain.StatusConnected && checker.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

// --- InterfaceStatus ---

func TestAnyUsable(t *testing.T) {
	tests := []struct {
		name   string
		ifaces []interfaceInfo
		want   bool
	}{
		{"none", nil, false},
		{"loopback only", []interfaceInfo{{flags: net.FlagUp | net.FlagLoopback, addrs: 1}}, false},
		{"down", []interfaceInfo{{flags: 0, addrs: 1}}, false},
		{"up without address", []interfaceInfo{{flags: net.FlagUp, addrs: 0}}, false},
		{"up with address", []interfaceInfo{
			{flags: net.FlagUp | net.FlagLoopback, addrs: 1},
			{flags: net.FlagUp | net.FlagBroadcast, addrs: 2},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anyUsable(tt.ifaces))
		})
	}
}
