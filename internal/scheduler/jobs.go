package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/internal/metrics"
	"github.com/donaldgifford/bluberry/internal/notify"
)

// Job names.
const (
	JobCachePrune    = "cache_prune"
	JobBreakerGauges = "breaker_gauges"
	JobEbayQuotaSync = "ebay_quota_sync"
)

const (
	quotaSyncTimeout = 15 * time.Second
	housekeepTimeout = 10 * time.Second
)

// Pruner drops expired cache entries.
type Pruner interface {
	Prune() int
}

// QuotaSyncer fetches the server-side eBay quota into a limiter.
type QuotaSyncer interface {
	SyncQuota(ctx context.Context, limiter *ebay.RateLimiter) (*ebay.QuotaState, error)
}

// CachePruneJob removes expired entries from an in-process cache.
func CachePruneJob(p Pruner, interval time.Duration) Job {
	return Job{
		Name:     JobCachePrune,
		Interval: interval,
		Timeout:  housekeepTimeout,
		Run: func(_ context.Context) error {
			if n := p.Prune(); n > 0 {
				metrics.CachePrunedTotal.Add(float64(n))
			}
			return nil
		},
	}
}

// BreakerGaugesJob republishes the open state of every upstream service,
// so a breaker that healed by timeout stops reporting open. When n is
// non-nil, state changes since the previous run are sent to it; a failed
// delivery is retried on the next run.
func BreakerGaugesJob(b *estimate.Breaker, n notify.Notifier, interval time.Duration) Job {
	services := []string{estimate.ServiceMarketplace, estimate.ServiceLLM}

	var mu sync.Mutex
	open := make(map[string]bool, len(services))

	return Job{
		Name:     JobBreakerGauges,
		Interval: interval,
		Timeout:  housekeepTimeout,
		Run: func(ctx context.Context) error {
			b.RefreshGauges(services...)
			if n == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			states := b.States()
			var errs []error
			for _, s := range services {
				isOpen := !b.IsAvailable(s)
				if isOpen == open[s] {
					continue
				}

				st := states[s]
				event := &notify.BreakerEvent{
					Service:       s,
					Open:          isOpen,
					FailureCount:  st.FailureCount,
					LastFailureAt: st.LastFailureAt,
					At:            time.Now(),
				}
				if err := n.SendBreakerEvent(ctx, event); err != nil {
					metrics.NotificationFailuresTotal.Inc()
					errs = append(errs, fmt.Errorf("notifying %s breaker change: %w", s, err))
					continue
				}
				open[s] = isOpen
			}
			return errors.Join(errs...)
		},
	}
}

// QuotaSyncJob aligns the local eBay limiter with the Analytics API count.
func QuotaSyncJob(a QuotaSyncer, rl *ebay.RateLimiter, interval time.Duration) Job {
	return Job{
		Name:     JobEbayQuotaSync,
		Interval: interval,
		Timeout:  quotaSyncTimeout,
		Run: func(ctx context.Context) error {
			if _, err := a.SyncQuota(ctx, rl); err != nil {
				return fmt.Errorf("syncing ebay quota: %w", err)
			}
			return nil
		},
	}
}
