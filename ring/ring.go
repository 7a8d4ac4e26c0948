// Package ring is the set of chopsticks shared around the table.
//
// Chopsticks are binary slots arranged in a ring and indexed 0..n-1. All of
// them are guarded by one mutex, so a check-and-set over any pair is
// serialised against every other pair operation, related or not.
package ring

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrTooFewChopsticks is returned when a ring cannot give each
	// philosopher two distinct chopsticks.
	ErrTooFewChopsticks = errors.New("ring: need at least 2 chopsticks")
)

// PairObserver is notified of every committed pair transition.
//
// ResourcePairChanged is called with the ring lock held, so it sees
// transitions in lock order. It must return promptly and must not call back
// into the ring.
type PairObserver interface {
	ResourcePairChanged(left, right int, inUse bool)
}

// Stats are counters of pair operations on a ring.
type Stats struct {
	Acquired  int // Successful TryAcquirePair.
	Contended int // Failed TryAcquirePair.
	Released  int // Release calls.
}

// Chopsticks is a ring of exclusive-access slots.
type Chopsticks struct {
	mu    sync.Mutex
	inUse []bool
	stats Stats
	obs   PairObserver
}

// New creates a ring of n available chopsticks. obs may be nil.
func New(n int, obs PairObserver) (*Chopsticks, error) {
	if n < 2 {
		return nil, fmt.Errorf("new ring of %d: %w", n, ErrTooFewChopsticks)
	}
	return &Chopsticks{inUse: make([]bool, n), obs: obs}, nil
}

// Len returns the number of chopsticks.
func (c *Chopsticks) Len() int { return len(c.inUse) }

// Neighbours returns the pair used by philosopher id: its own index and its
// clockwise neighbour's.
func (c *Chopsticks) Neighbours(id int) (left, right int) {
	return id, (id + 1) % len(c.inUse)
}

// Contenders returns the two philosophers competing for chopstick i.
func (c *Chopsticks) Contenders(i int) (a, b int) {
	n := len(c.inUse)
	return i, (i - 1 + n) % n
}

// TryAcquirePair takes both chopsticks if both are free, or neither.
func (c *Chopsticks) TryAcquirePair(left, right int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inUse[left] || c.inUse[right] {
		c.stats.Contended++
		return false
	}
	c.inUse[left] = true
	c.inUse[right] = true
	c.stats.Acquired++
	if c.obs != nil {
		c.obs.ResourcePairChanged(left, right, true)
	}
	return true
}

// Release puts both chopsticks back on the table.
//
// The caller must hold the pair from an earlier successful TryAcquirePair.
// This is not checked: releasing a pair held by someone else frees it for
// them too.
func (c *Chopsticks) Release(left, right int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inUse[left] = false
	c.inUse[right] = false
	c.stats.Released++
	if c.obs != nil {
		c.obs.ResourcePairChanged(left, right, false)
	}
}

// InUse reports whether chopstick i is held.
func (c *Chopsticks) InUse(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inUse[i]
}

// Snapshot returns a consistent copy of every in-use flag.
func (c *Chopsticks) Snapshot() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := make([]bool, len(c.inUse))
	copy(s, c.inUse)
	return s
}

// Stats returns the operation counters.
func (c *Chopsticks) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
