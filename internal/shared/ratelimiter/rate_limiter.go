// Package ratelimiter throttles request rates per caller. The login
// endpoint uses it to slow down credential guessing.
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter decides whether an operation attributed to a key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// FixedWindow counts operations per key inside a fixed interval and rejects
// once the limit is reached. Counters reset when their window elapses.
type FixedWindow struct {
	limit    int
	interval time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	startAt time.Time
}

// NewFixedWindow creates a limiter allowing limit operations per key per
// interval.
func NewFixedWindow(limit int, interval time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allow reports whether the key is still under its limit and records the
// attempt. Rejected attempts are not counted, so a throttled caller does
// not extend its own lockout.
func (l *FixedWindow) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.startAt) >= l.interval {
		l.windows[key] = &window{count: 1, startAt: now}
		l.sweep(now)
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// sweep drops stale windows so the map does not grow with one entry per
// client forever. Called with the lock held.
func (l *FixedWindow) sweep(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.startAt) >= l.interval {
			delete(l.windows, key)
		}
	}
}
