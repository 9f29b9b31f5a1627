// Package clock provides the monotonic time source for gameplay timers
package clock

import (
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock Clock

// Clock provides time functionality. Implementations must be monotonic:
// differences between two Now readings never go backwards.
type Clock interface {
	Now() time.Time
}

// New returns the clock for the current platform
func New() Clock {
	return newReal()
}

// Since returns the time elapsed since t according to c
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Manual is a Clock that only moves when told to. Used by tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
