package prediction

import (
	"sync"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Entry is the latest outcome recorded for one category.
type Entry struct {
	Result    *domain.PredictionResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string                   `json:"error,omitempty" yaml:"error,omitempty"`
	UpdatedAt time.Time                `json:"updated_at" yaml:"updated_at"`
}

// Board keeps the latest prediction outcome per category. A failure records
// its message without discarding the category's previous result.
type Board struct {
	mu      sync.RWMutex
	entries map[domain.Category]Entry
	clock   clockwork.Clock
}

// NewBoard creates an empty Board. A nil clock uses real time.
func NewBoard(clock clockwork.Clock) *Board {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Board{entries: make(map[domain.Category]Entry), clock: clock}
}

// Record stores the outcome of a Predict call for category.
func (b *Board) Record(category domain.Category, result domain.PredictionResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.entries[category]
	e.UpdatedAt = b.clock.Now().UTC()
	if err != nil {
		e.Error = err.Error()
	} else {
		e.Result = &result
		e.Error = ""
	}
	b.entries[category] = e
}

// Get returns the entry for category, if any.
func (b *Board) Get(category domain.Category) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[category]
	return e, ok
}

// Snapshot returns a copy of all entries.
func (b *Board) Snapshot() map[domain.Category]Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[domain.Category]Entry, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}
