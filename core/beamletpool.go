package core

import (
	"errors"
	"fmt"
	"sync"
)

// MaxBeamlets is the number of beamlet slots the station hardware exposes.
const MaxBeamlets = 244

// ErrResourceExhausted is returned when an allocation asks for more beamlet
// IDs than remain free.
var ErrResourceExhausted = errors.New("beamlet pool exhausted")

// BeamletPool hands out unique beamlet IDs from the finite hardware pool.
// Allocation always picks the lowest free IDs, which keeps beam layouts
// reproducible and maximises the chance of contiguous runs that can be
// merged into a single directive. There is no release: IDs stay allocated
// for the lifetime of the owning observation.
type BeamletPool struct {
	mu        sync.Mutex
	allocated []bool
	count     int
}

// NewBeamletPool constructs an empty pool with the station capacity.
func NewBeamletPool() *BeamletPool {
	return NewBeamletPoolWithCapacity(MaxBeamlets)
}

// NewBeamletPoolWithCapacity constructs an empty pool with a custom
// capacity, mainly for tests.
func NewBeamletPoolWithCapacity(capacity int) *BeamletPool {
	if capacity < 0 {
		capacity = 0
	}
	return &BeamletPool{allocated: make([]bool, capacity)}
}

// Allocate reserves the n lowest free IDs and returns them in ascending
// order. The check-then-mark sequence runs under the pool lock and is
// transactional: when fewer than n IDs remain, ErrResourceExhausted is
// returned and the pool is left unchanged.
func (p *BeamletPool) Allocate(n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("beamlet pool: allocation count must be positive, got %d", n)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if remaining := len(p.allocated) - p.count; remaining < n {
		return nil, fmt.Errorf("%w: requested %d beamlet IDs, %d remaining of %d",
			ErrResourceExhausted, n, remaining, len(p.allocated))
	}

	ids := make([]int, 0, n)
	for id := 0; id < len(p.allocated) && len(ids) < n; id++ {
		if !p.allocated[id] {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		p.allocated[id] = true
	}
	p.count += n
	return ids, nil
}

// Capacity returns the total number of beamlet slots.
func (p *BeamletPool) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.allocated)
}

// Allocated returns the number of IDs handed out so far.
func (p *BeamletPool) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Remaining returns the number of free IDs.
func (p *BeamletPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.allocated) - p.count
}
