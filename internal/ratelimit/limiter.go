// Package ratelimit throttles commands per user with a fixed time window.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultWindow is the length of one counting window.
	DefaultWindow = 10 * time.Second
	// DefaultMaxPerWindow is the number of actions allowed inside a window.
	DefaultMaxPerWindow = 5
	// DefaultCapacity bounds how many users are tracked at once.
	DefaultCapacity = 10000
)

// Config holds limiter configuration.
type Config struct {
	Window       time.Duration
	MaxPerWindow int
	Capacity     int
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() Config {
	return Config{
		Window:       DefaultWindow,
		MaxPerWindow: DefaultMaxPerWindow,
		Capacity:     DefaultCapacity,
	}
}

// window is the counter for one user.
type window struct {
	count int
	start time.Time
}

// Limiter is a fixed-window counter keyed by user ID.
// Entries are kept in a bounded LRU and expire after two windows of inactivity,
// so a user that drops out of the cache simply starts a fresh window.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	windows *expirable.LRU[int64, *window]
	now     func() time.Time
}

// NewLimiter creates a limiter. Zero fields in cfg fall back to the defaults.
func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = def.MaxPerWindow
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	return &Limiter{
		cfg:     cfg,
		windows: expirable.NewLRU[int64, *window](cfg.Capacity, nil, 2*cfg.Window),
		now:     time.Now,
	}
}

// Allow records one action for userID and reports whether it is within the limit.
// The first action of a window and up to MaxPerWindow actions in total are allowed.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows.Get(userID)
	if !ok || now.Sub(w.start) > l.cfg.Window {
		l.windows.Add(userID, &window{count: 1, start: now})
		return true
	}

	w.count++
	// Re-adding refreshes the entry's position and TTL.
	l.windows.Add(userID, w)
	return w.count <= l.cfg.MaxPerWindow
}

// Tracked returns the number of users currently held by the limiter.
func (l *Limiter) Tracked() int {
	return l.windows.Len()
}
