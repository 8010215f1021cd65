// Package ratelimit provides a keyed token-bucket limiter. The API layer keys
// it by client IP; the suggestion service keys it by user.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an untouched key keeps its bucket.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter; keys idle for longer
// than the TTL are evicted by a background sweeper.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithIdleTTL overrides DefaultIdleTTL. Non-positive values disable eviction.
func WithIdleTTL(ttl time.Duration) Option {
	return func(k *KeyedRateLimiter) { k.idleTTL = ttl }
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(krl)
	}

	if krl.idleTTL > 0 {
		go krl.cleanup(krl.idleTTL / 2)
	}

	return krl
}

// PerMinute converts a per-minute budget into the per-second rate New expects.
func PerMinute(n float64) float64 {
	return n / 60
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// RetryAfter reports how long key must wait for its next token, rounded up to
// whole seconds for Retry-After headers. Zero means a token is available.
func (krl *KeyedRateLimiter) RetryAfter(key string) time.Duration {
	r := krl.getLimiter(key).Reserve()
	d := r.Delay()
	r.Cancel()
	if d <= 0 {
		return 0
	}
	return d.Truncate(time.Second) + time.Second
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

// getLimiter returns the limiter for a key, creating one if needed, and
// records the access.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = krl.now()
	return e.limiter
}

// sweep evicts keys idle for longer than the TTL and returns how many went.
func (krl *KeyedRateLimiter) sweep() int {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()

	evicted := 0
	for key, e := range krl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(krl.entries, key)
			evicted++
		}
	}
	return evicted
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.sweep()
		case <-krl.done:
			return
		}
	}
}
