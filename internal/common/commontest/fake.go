// Package commontest provides deterministic Clock and Random implementations
// for tests.
package commontest

import (
	"context"
	"sync"
	"time"
)

// FakeClock never blocks. Sleep advances Now and records the duration.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// Advance moves the clock forward without recording a sleep.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns the recorded Sleep durations.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// FixedRandom returns F from Float64 and min(N, n-1) from Int63n.
type FixedRandom struct {
	F float64
	N int64
}

func (r FixedRandom) Float64() float64 { return r.F }

func (r FixedRandom) Int63n(n int64) int64 {
	if r.N >= n {
		return n - 1
	}
	return r.N
}
