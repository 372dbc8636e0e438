package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ RateLimiter = (*MemoryRateLimiter)(nil)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryRateLimiter is a per-process token bucket per key, used when no
// Redis is configured.
type MemoryRateLimiter struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	rateLimit rate.Limit
	rateBurst int

	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryRateLimiter(ratePerSec float64, burst int) *MemoryRateLimiter {
	m := &MemoryRateLimiter{
		limiters:  make(map[string]*limiterEntry),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		done:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryRateLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	now := time.Now()

	m.mu.Lock()
	entry, ok := m.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(m.rateLimit, m.rateBurst)}
		m.limiters[key] = entry
	}
	entry.lastSeen = now
	m.mu.Unlock()

	res := entry.limiter.ReserveN(now, 1)
	if !res.OK() {
		return RateLimitResult{Allowed: false, RetryAfter: time.Second}, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}
	return RateLimitResult{Allowed: true}, nil
}

func (m *MemoryRateLimiter) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryRateLimiter) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *MemoryRateLimiter) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, entry := range m.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(m.limiters, key)
		}
	}
}
