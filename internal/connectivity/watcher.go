package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Watcher polls the host network and re-probes the model service when the
// network comes back.
type Watcher struct {
	checker  Checker
	network  NetworkStatus
	tracker  *Tracker
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewWatcher creates a Watcher polling network every interval.
func NewWatcher(checker Checker, network NetworkStatus, tracker *Tracker, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		checker:  checker,
		network:  network,
		tracker:  tracker,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
	}
}

// Run probes once, then watches for network transitions until ctx is
// cancelled. In-flight probes are awaited before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("connectivity watcher started", "interval", w.interval)
	defer w.wg.Wait()

	w.tracker.Set(w.checker.CheckService(ctx))
	online := w.network.Online()

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("connectivity watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			now := w.network.Online()
			switch {
			case online && !now:
				w.logger.Warn("network went offline")
				w.tracker.Set(domain.Failed(ReasonOffline))
			case !online && now:
				w.logger.Info("network back online, re-probing model service")
				w.tracker.Set(domain.Checking())
				w.reprobe(ctx)
			}
			online = now
		}
	}
}

// reprobe runs a probe in its own goroutine. Overlapping probes are not
// cancelled.
func (w *Watcher) reprobe(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.tracker.Set(w.checker.CheckService(ctx))
	}()
}
