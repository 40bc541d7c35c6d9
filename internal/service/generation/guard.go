package generation

import (
	"sync"
	"time"
)

// Guard is a fixed-window request counter shared by the whole process.
// The window opens at the first request and is replaced lazily by the first
// request that arrives once it has elapsed.
type Guard struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	count  int
	start  time.Time
	now    func() time.Time
}

// NewGuard allows limit requests per window.
func NewGuard(limit int, window time.Duration) *Guard {
	return &Guard{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow takes one slot from the current window, reporting false once limit
// requests have already been accepted in it.
func (g *Guard) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.start.IsZero() || now.Sub(g.start) >= g.window {
		g.start = now
		g.count = 0
	}

	if g.count >= g.limit {
		return false
	}
	g.count++
	return true
}

// Remaining reports how many requests the current window still accepts.
func (g *Guard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.start.IsZero() || g.now().Sub(g.start) >= g.window {
		return g.limit
	}
	return g.limit - g.count
}
