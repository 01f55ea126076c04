package openrouter

import (
	"sync"
	"time"
)

// DefaultMaxRequestsPerMinute bounds outbound calls when no explicit
// limit is configured.
const DefaultMaxRequestsPerMinute = 60

// rateLimitWindow is the rolling window over which calls are counted.
const rateLimitWindow = time.Minute

// RateLimiter is an in-memory sliding-window limiter for outbound API
// calls. It is a best-effort local bound, not a distributed guarantee:
// the timestamp log resets on process restart.
type RateLimiter struct {
	mu         sync.Mutex
	limit      int
	timestamps []time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewRateLimiter creates a limiter allowing at most maxPerMinute calls in
// any rolling 60-second window. A non-positive limit falls back to
// DefaultMaxRequestsPerMinute.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = DefaultMaxRequestsPerMinute
	}
	return &RateLimiter{
		limit: maxPerMinute,
		now:   time.Now,
	}
}

// Allow prunes timestamps older than the window, then either records the
// current call and returns nil, or rejects with a RATE_LIMIT_ERROR when
// the window already holds the configured maximum. Rejected calls are not
// recorded.
func (r *RateLimiter) Allow() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-rateLimitWindow)

	kept := r.timestamps[:0]
	for _, ts := range r.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.timestamps = kept

	if len(r.timestamps) >= r.limit {
		return NewError(CodeRateLimit, "too many requests, please try again later", nil)
	}

	r.timestamps = append(r.timestamps, now)
	return nil
}
