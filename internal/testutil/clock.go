package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the time a DeterministicClock starts at.
var DefaultEpoch = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe wall clock for tests.
//
// Each call to Now returns the current instant and then advances it by one
// second, so consecutive records get distinct, predictable created_at values.
// Reset rewinds it for test reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
}

// NewDeterministicClock creates a clock starting at DefaultEpoch.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(DefaultEpoch)
}

// NewDeterministicClockAt creates a clock starting at a specific instant.
func NewDeterministicClockAt(start time.Time) *DeterministicClock {
	return &DeterministicClock{start: start, now: start}
}

// Now returns the current instant and advances the clock by one second.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

// Peek returns the instant the next Now call will return.
func (c *DeterministicClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its starting instant.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
