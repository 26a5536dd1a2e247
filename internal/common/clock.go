package common

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Clock abstracts wall time and sleeping so pacing can be replaced in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// Random is the subset of *rand.Rand used for jitter and amount selection.
type Random interface {
	Float64() float64
	Int63n(n int64) int64
}

// SystemClock is the real Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// lockedRand makes a *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a Random seeded from the current time.
func NewRandom() Random {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Int63n(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Int63n(n)
}

// UniformMicro picks an amount uniformly from the closed range [lo, hi].
// If hi < lo the range collapses to lo.
func UniformMicro(r Random, lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	return lo + uint64(r.Int63n(int64(hi-lo)+1))
}

// UniformDuration picks a whole-second duration uniformly from [lo, hi].
func UniformDuration(r Random, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	span := int64((hi - lo) / time.Second)
	return lo + time.Duration(r.Int63n(span+1))*time.Second
}
