package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestAllowUnderLimit(t *testing.T) {
	l, _ := newTestLimiter(DefaultConfig())

	for i := 0; i < DefaultMaxPerWindow; i++ {
		assert.True(t, l.Allow(1), "call %d should be allowed", i+1)
	}
}

func TestAllowOverLimit(t *testing.T) {
	l, clock := newTestLimiter(DefaultConfig())

	for i := 0; i < DefaultMaxPerWindow; i++ {
		l.Allow(1)
		clock.Advance(time.Second)
	}
	assert.False(t, l.Allow(1), "call N+1 inside the window should be denied")
	assert.False(t, l.Allow(1), "later calls inside the window stay denied")
}

func TestAllowSeparateUsers(t *testing.T) {
	l, _ := newTestLimiter(Config{Window: time.Minute, MaxPerWindow: 2})

	l.Allow(1)
	l.Allow(1)
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2), "other users have their own window")
}

func TestWindowReset(t *testing.T) {
	l, clock := newTestLimiter(DefaultConfig())

	for i := 0; i < DefaultMaxPerWindow+3; i++ {
		l.Allow(1)
	}
	assert.False(t, l.Allow(1))

	clock.Advance(DefaultWindow + time.Millisecond)
	assert.True(t, l.Allow(1), "window should reset once elapsed exceeds the window length")

	// The counter restarted at 1, so N-1 more calls fit.
	for i := 0; i < DefaultMaxPerWindow-1; i++ {
		assert.True(t, l.Allow(1))
	}
	assert.False(t, l.Allow(1))
}

func TestWindowBoundaryIsInclusive(t *testing.T) {
	l, clock := newTestLimiter(Config{Window: 10 * time.Second, MaxPerWindow: 1})

	assert.True(t, l.Allow(1))
	clock.Advance(10 * time.Second)
	assert.False(t, l.Allow(1), "elapsed equal to the window does not reset it")
}

func TestCapacityIsBounded(t *testing.T) {
	l, _ := newTestLimiter(Config{Window: time.Minute, MaxPerWindow: 1, Capacity: 3})

	for id := int64(1); id <= 10; id++ {
		l.Allow(id)
	}
	assert.LessOrEqual(t, l.Tracked(), 3)

	// User 1 was evicted and gets a fresh window.
	assert.True(t, l.Allow(1))
}
