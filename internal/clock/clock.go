// Package clock abstracts the time source so components that compute
// time-dependent quantities can be pinned to a fixed instant in tests and
// in replayed observation runs.
package clock

import (
	"sync"
	"time"
)

// Clock is an interface for reading the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Fixed is a Clock pinned to an instant. The instant can be advanced, which
// makes it useful for tests and for evaluating an observation at its
// scheduled start rather than at build time.
type Fixed struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixed constructs a Fixed clock at the given instant.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the pinned instant. Implements Clock.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.t
}

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}
