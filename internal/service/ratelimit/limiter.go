// Package ratelimit implements a keyed token bucket used to throttle
// scan requests per chat.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter hands out tokens from one bucket per key. Buckets are created
// lazily on first use and never expire; the working set is bounded by the
// number of distinct chats seen.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket)}
}

// Allow consumes one token from key's bucket, refilling it first at
// refillPerSec tokens per second up to capacity. It returns false when the
// bucket is empty. Callers key buckets per chat (e.g. "chat:<id>") so one
// noisy chat cannot starve the others.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * refillPerSec
		if b.tokens > capacity {
			b.tokens = capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
