package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily API call limit has been exhausted.
var ErrDailyLimitReached = errors.New("daily API limit reached")

const quotaWindow = 24 * time.Hour

// RateLimiter throttles Browse API calls with a token bucket and enforces
// a rolling 24-hour call quota. A quota window starts with the first call
// after the previous window expired.
type RateLimiter struct {
	limiter  *rate.Limiter
	maxDaily int64
	nowFunc  func() time.Time

	mu      sync.Mutex
	used    int64
	resetAt time.Time
}

// QuotaStatus is a point-in-time view of the daily quota.
type QuotaStatus struct {
	Used      int64     `json:"used"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst and at most maxDaily calls per rolling 24-hour window.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(quotaWindow)
	return r
}

// Wait reserves one call from the daily quota and then blocks until the
// token bucket admits it or ctx is done. Returns ErrDailyLimitReached
// without blocking once the quota is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserve(); err != nil {
		return err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// DailyCount returns the number of calls made in the current window.
func (r *RateLimiter) DailyCount() int64 {
	return r.Status().Used
}

// Status returns the quota usage for the current window.
func (r *RateLimiter) Status() QuotaStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollLocked()

	remaining := max(r.maxDaily-r.used, 0)
	return QuotaStatus{
		Used:      r.used,
		Limit:     r.maxDaily,
		Remaining: remaining,
		ResetAt:   r.resetAt,
	}
}

// Sync replaces the local quota counters with the server-side state. The
// local limit never grows past the configured daily limit. A reset time
// that has already passed is ignored.
func (r *RateLimiter) Sync(state QuotaState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state.Limit > 0 && state.Limit < r.maxDaily {
		r.maxDaily = state.Limit
	}
	r.used = max(state.Count, 0)
	if !state.ResetAt.IsZero() && state.ResetAt.After(r.nowFunc()) {
		r.resetAt = state.ResetAt
	}
}

func (r *RateLimiter) reserve() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollLocked()

	if r.used >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.used, r.maxDaily)
	}
	r.used++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used > 0 {
		r.used--
	}
}

func (r *RateLimiter) rollLocked() {
	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.used = 0
		r.resetAt = now.Add(quotaWindow)
	}
}
