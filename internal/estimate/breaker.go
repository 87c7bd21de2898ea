package estimate

import (
	"sync"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

// Upstream service names tracked by the breaker.
const (
	ServiceMarketplace = "marketplace"
	ServiceLLM         = "llm"
)

// Breaker defaults.
const (
	DefaultMaxFailures  = 3
	DefaultResetTimeout = 5 * time.Minute
)

// CircuitState is the failure record of one upstream service.
type CircuitState struct {
	FailureCount  int       `json:"failure_count"`
	LastFailureAt time.Time `json:"last_failure_at"`
}

// Breaker is a per-service failure counter. A service is available while
// its failure count is below the threshold, or once the reset timeout has
// passed since the last failure. State is advisory: callers skip the
// service rather than fail.
type Breaker struct {
	mu           sync.Mutex
	states       map[string]*CircuitState
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithMaxFailures sets the failure threshold.
func WithMaxFailures(n int) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.maxFailures = n
		}
	}
}

// WithResetTimeout sets how long after the last failure a service heals.
func WithResetTimeout(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.resetTimeout = d
		}
	}
}

// WithBreakerClock overrides the clock, for tests.
func WithBreakerClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

// NewBreaker creates a Breaker with the default threshold and timeout.
func NewBreaker(opts ...BreakerOption) *Breaker {
	b := &Breaker{
		states:       make(map[string]*CircuitState),
		maxFailures:  DefaultMaxFailures,
		resetTimeout: DefaultResetTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsAvailable reports whether service may be called. Once the reset window
// has elapsed the stored state is deleted.
func (b *Breaker) IsAvailable(service string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[service]
	if !ok {
		return true
	}
	if b.now().Sub(st.LastFailureAt) > b.resetTimeout {
		delete(b.states, service)
		metrics.BreakerOpen.WithLabelValues(service).Set(0)
		return true
	}
	return st.FailureCount < b.maxFailures
}

// RecordFailure increments the failure count and stamps the time.
func (b *Breaker) RecordFailure(service string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[service]
	if !ok {
		st = &CircuitState{}
		b.states[service] = st
	}
	st.FailureCount++
	st.LastFailureAt = b.now()

	metrics.BreakerFailuresTotal.WithLabelValues(service).Inc()
	if st.FailureCount >= b.maxFailures {
		metrics.BreakerOpen.WithLabelValues(service).Set(1)
	}
}

// RecordSuccess decrements the failure count, deleting the state at zero.
func (b *Breaker) RecordSuccess(service string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[service]
	if !ok {
		return
	}
	st.FailureCount--
	if st.FailureCount <= 0 {
		delete(b.states, service)
	}
	if st.FailureCount < b.maxFailures {
		metrics.BreakerOpen.WithLabelValues(service).Set(0)
	}
}

// States returns a snapshot of every tracked service.
func (b *Breaker) States() map[string]CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]CircuitState, len(b.states))
	for k, v := range b.states {
		out[k] = *v
	}
	return out
}

// RefreshGauges publishes the open state of each named service.
func (b *Breaker) RefreshGauges(services ...string) {
	for _, s := range services {
		open := 0.0
		if !b.IsAvailable(s) {
			open = 1
		}
		metrics.BreakerOpen.WithLabelValues(s).Set(open)
	}
}
