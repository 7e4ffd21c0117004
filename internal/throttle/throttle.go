// Package throttle is the one rate-limiter implementation shared by the OTP
// resend cooldown and the search suggestion debounce. Both are advisory
// client-side throttles; the backing services may rate limit on their own.
package throttle

import (
	"sync"
	"time"
)

// Limiter allows one event per interval per key, by comparing timestamps at
// call time rather than scheduling timers.
type Limiter struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// NewLimiterWithClock is for tests that need a controlled clock.
func NewLimiterWithClock(interval time.Duration, now func() time.Time) *Limiter {
	l := NewLimiter(interval)
	l.now = now
	return l
}

// Allow records an event for key if at least one interval has passed since the
// previous one. On rejection it reports the remaining wait. An elapsed time of
// exactly one interval is allowed.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.last[key]; ok {
		elapsed := now.Sub(last)
		if elapsed < l.interval {
			return false, l.interval - elapsed
		}
	}
	l.last[key] = now
	return true, 0
}

// Reset forgets the key so the next Allow succeeds immediately.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, key)
}

// Debouncer suppresses calls that arrive within the quiet interval of the
// previous accepted call, per key. Used to recompute suggestions only when
// keystrokes pause.
type Debouncer struct {
	limiter *Limiter
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{limiter: NewLimiter(quiet)}
}

func NewDebouncerWithClock(quiet time.Duration, now func() time.Time) *Debouncer {
	return &Debouncer{limiter: NewLimiterWithClock(quiet, now)}
}

func (d *Debouncer) Ready(key string) bool {
	ok, _ := d.limiter.Allow(key)
	return ok
}
