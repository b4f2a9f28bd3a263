// Package schedule provides the timing primitives form components rely on:
// a next-tick hook that lets pending renders settle before focus moves, and
// a debouncer for input driven validation.
package schedule

import (
	"context"
	"sync"
)

// Ticker waits for pending DOM updates to be applied.
type Ticker interface {
	NextTick(ctx context.Context) error
}

// TickerFunc adapts a function to Ticker.
type TickerFunc func(ctx context.Context) error

func (f TickerFunc) NextTick(ctx context.Context) error {
	return f(ctx)
}

// Immediate is the default Ticker. The in-memory tree applies updates
// synchronously, so the next tick only observes cancellation.
var Immediate Ticker = TickerFunc(func(ctx context.Context) error {
	return ctx.Err()
})

// Manual is a Ticker whose ticks are released explicitly, for tests that
// need to observe state between a request and the following tick.
type Manual struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

// NextTick blocks until Flush is called or ctx is done.
func (m *Manual) NextTick(ctx context.Context) error {
	ch := make(chan struct{})
	m.mu.Lock()
	m.waiters = append(m.waiters, ch)
	m.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Waiting returns how many callers are blocked on NextTick.
func (m *Manual) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// Flush releases every blocked caller.
func (m *Manual) Flush() {
	m.mu.Lock()
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()
	for _, ch := range waiters {
		close(ch)
	}
}
