package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/dynmodel/internal/clock"
)

var _ clock.Clock = (*DeterministicClock)(nil)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, DefaultEpoch, c.Peek())
}

func TestDeterministicClock_NowAdvancesOneSecond(t *testing.T) {
	c := NewDeterministicClock()

	assert.Equal(t, DefaultEpoch, c.Now())
	assert.Equal(t, DefaultEpoch.Add(time.Second), c.Now())
	assert.Equal(t, DefaultEpoch.Add(2*time.Second), c.Peek())
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClock()
	c.Now()
	c.Now()

	c.Reset()
	assert.Equal(t, DefaultEpoch, c.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	c := NewDeterministicClock()
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				c.Now()
			}
		}()
	}
	wg.Wait()

	want := DefaultEpoch.Add(numGoroutines * callsPerGoroutine * time.Second)
	assert.Equal(t, want, c.Peek())
}
