// Package ratelimit implements a per-key token bucket used to throttle
// login attempts by client IP. Buckets live in memory only; a restart
// clears all throttling state.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/kriaa9/placehub/internal/logging"
)

// Limiter is a keyed token bucket. Each key gets its own bucket of
// Capacity tokens that refills continuously over Window. A bucket is
// created on first use and removed by Sweep once it has been idle for
// longer than Window.
//
// Buckets carry their own mutex and live in a sync.Map, so operations on
// one key never wait on another key, and the sweep contends with at most
// one bucket at a time.
type Limiter struct {
	capacity int
	window   time.Duration

	buckets sync.Map // string -> *bucket

	now func() time.Time
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
}

// NewLimiter constructs a Limiter with the given bucket capacity and
// refill window.
func NewLimiter(capacity int, window time.Duration) *Limiter {
	return &Limiter{
		capacity: capacity,
		window:   window,
		now:      time.Now,
	}
}

// TryAcquire takes one token from the key's bucket. It reports false when
// the bucket is empty; the attempt itself still counts as activity, so a
// throttled key that keeps retrying stays throttled.
func (l *Limiter) TryAcquire(key string) bool {
	now := l.now()
	v, _ := l.buckets.LoadOrStore(key, &bucket{tokens: float64(l.capacity), lastSeen: now})
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	l.refill(b, now)
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// AvailableTokens reports how many whole tokens the key's bucket holds
// right now. It never mutates the bucket: unknown keys report full
// capacity and the call does not count as activity.
func (l *Limiter) AvailableTokens(key string) int {
	v, ok := l.buckets.Load(key)
	if !ok {
		return l.capacity
	}
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	tokens := b.tokens
	if elapsed := l.now().Sub(b.lastSeen); elapsed > 0 {
		tokens += elapsed.Seconds() * float64(l.capacity) / l.window.Seconds()
		if tokens > float64(l.capacity) {
			tokens = float64(l.capacity)
		}
	}
	return int(tokens)
}

// Sweep removes buckets whose last activity is older than the window.
// Each bucket's lock is held only for the idleness check, so acquisitions
// on other keys proceed while the sweep runs. An idle bucket has fully
// refilled anyway, so an acquisition racing with the delete gets the same
// answer a fresh bucket would give.
func (l *Limiter) Sweep() int {
	now := l.now()
	removed := 0
	l.buckets.Range(func(key, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastSeen) > l.window
		b.mu.Unlock()
		if idle {
			l.buckets.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps idle buckets every interval until the context is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := l.Sweep()
			if removed > 0 {
				logger.Info(ctx, "rate limiter sweep", "removed", removed)
			}
		}
	}
}

// refill adds tokens earned since the bucket's last activity, capped at
// capacity. Caller holds the bucket's lock.
func (l *Limiter) refill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.lastSeen)
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed.Seconds() * float64(l.capacity) / l.window.Seconds()
	if b.tokens > float64(l.capacity) {
		b.tokens = float64(l.capacity)
	}
}
