// Package timeutil provides a testable abstraction over wall-clock reads.
//
// The segmentation pipeline enforces a wall-clock budget at its yield
// points; injecting a Clock lets tests drive the budget over the edge
// without sleeping.
package timeutil

import (
	"sync"
	"time"
)

// Clock abstracts the wall-clock reads the engine performs.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// MockClock is a manually advanced clock for tests. With AutoAdvance set,
// every Now read also steps the clock forward, which lets a test walk a
// wall-clock budget over its limit from inside a single engine call.
type MockClock struct {
	mu          sync.Mutex
	now         time.Time
	autoAdvance time.Duration
}

// NewMockClock creates a MockClock starting at the given time.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

// SetAutoAdvance makes every subsequent Now read advance the clock by d.
func (c *MockClock) SetAutoAdvance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoAdvance = d
}

// Now returns the mock's current time, stepping it first when
// auto-advance is enabled.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.autoAdvance)
	return c.now
}

// Since returns the mock duration elapsed since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance moves the mock clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Verify interface satisfaction at compile time.
var (
	_ Clock = RealClock{}
	_ Clock = (*MockClock)(nil)
)
