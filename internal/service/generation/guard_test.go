package generation

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGuard(limit int, window time.Duration) (*Guard, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := NewGuard(limit, window)
	g.now = clock.Now
	return g, clock
}

func TestGuard_FixedWindow(t *testing.T) {
	g, clock := newTestGuard(10, time.Minute)

	for i := 1; i <= 10; i++ {
		assert.True(t, g.Allow(), "request %d", i)
		clock.Advance(time.Second)
	}
	assert.False(t, g.Allow(), "request 11 in the same window")
	assert.Equal(t, 0, g.Remaining())

	// 59s after the window start
	clock.Advance(49 * time.Second)
	assert.False(t, g.Allow())

	// exactly 60s after the window start
	clock.Advance(time.Second)
	assert.True(t, g.Allow())
	assert.Equal(t, 9, g.Remaining())
}

func TestGuard_WindowStartsAtFirstRequest(t *testing.T) {
	g, clock := newTestGuard(1, time.Minute)

	clock.Advance(10 * time.Minute)
	assert.True(t, g.Allow())
	clock.Advance(59 * time.Second)
	assert.False(t, g.Allow())
	clock.Advance(time.Second)
	assert.True(t, g.Allow())
}

func TestGuard_Concurrent(t *testing.T) {
	g, _ := newTestGuard(10, time.Minute)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Allow() {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, allowed.Load())
}
