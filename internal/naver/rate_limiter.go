package naver

import (
	"sync"
	"time"
)

// RateLimiter spaces outgoing calls to the commerce API, which enforces
// a per-application requests-per-second quota and answers bursts with
// 429. Spacing requests up front keeps doWithRetry's backoff path the
// exception rather than the steady state.
type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

// WaitTurn blocks until the caller may send its request. Each caller
// claims the next slot under the lock and sleeps outside it, so
// concurrent token and order calls queue instead of piling onto the
// same slot.
func (r *RateLimiter) WaitTurn() {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	if sleep := time.Until(scheduled); sleep > 0 {
		time.Sleep(sleep)
	}
}
