package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/internal/metrics"
	"github.com/donaldgifford/bluberry/internal/notify"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func noop(context.Context) error { return nil }

func TestNew_RegistersCronEntries(t *testing.T) {
	t.Parallel()

	sched, err := New(quietLogger(),
		Job{Name: "a", Interval: time.Minute, Run: noop},
		Job{Name: "b", Interval: time.Hour, Run: noop},
		Job{Name: "disabled", Interval: 0, Run: noop},
	)
	require.NoError(t, err)

	assert.Len(t, sched.Entries(), 2)
	assert.Contains(t, sched.entries, "a")
	assert.Contains(t, sched.entries, "b")
	assert.NotContains(t, sched.entries, "disabled")
	assert.NotEqual(t, sched.entries["a"], sched.entries["b"])
}

func TestNew_InvalidJobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		jobs    []Job
		wantErr string
	}{
		{
			name:    "missing run function",
			jobs:    []Job{{Name: "x", Interval: time.Minute}},
			wantErr: "no run function",
		},
		{
			name: "duplicate name",
			jobs: []Job{
				{Name: "x", Interval: time.Minute, Run: noop},
				{Name: "x", Interval: time.Hour, Run: noop},
			},
			wantErr: "registered twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(quietLogger(), tt.jobs...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := New(quietLogger(), Job{Name: "start_stop", Interval: time.Hour, Run: noop})
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()

	next := ptestutil.ToFloat64(metrics.SchedulerNextRun.WithLabelValues("start_stop"))
	assert.Greater(t, next, float64(time.Now().Unix()))
}

func TestScheduler_RunJob(t *testing.T) {
	t.Parallel()

	jobErr := errors.New("something went wrong")

	tests := []struct {
		name       string
		run        func(context.Context) error
		timeout    time.Duration
		wantErr    error
		wantResult string
	}{
		{
			name:       "run_success",
			run:        noop,
			wantResult: "succeeded",
		},
		{
			name:       "run_failure",
			run:        func(context.Context) error { return jobErr },
			wantErr:    jobErr,
			wantResult: "failed",
		},
		{
			name: "run_timeout",
			run: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			timeout:    10 * time.Millisecond,
			wantErr:    context.DeadlineExceeded,
			wantResult: "timeout",
		},
		{
			name:       "run_panic",
			run:        func(context.Context) error { panic("boom") },
			wantResult: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched, err := New(quietLogger(), Job{
				Name:     tt.name,
				Interval: time.Hour,
				Timeout:  tt.timeout,
				Run:      tt.run,
			})
			require.NoError(t, err)

			counter := metrics.SchedulerJobRunsTotal.WithLabelValues(tt.name, tt.wantResult)
			before := ptestutil.ToFloat64(counter)

			err = sched.RunNow(context.Background(), tt.name)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantResult == "failed":
				require.Error(t, err)
				assert.Contains(t, err.Error(), "panicked")
			default:
				require.NoError(t, err)
			}

			assert.InDelta(t, before+1, ptestutil.ToFloat64(counter), 0.0001)
		})
	}
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	t.Parallel()

	sched, err := New(quietLogger())
	require.NoError(t, err)

	err = sched.RunNow(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown job "nope"`)
}

func TestCachePruneJob(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	cache := estimate.NewMemoryCache(time.Hour, estimate.WithCacheClock(clock))
	cache.Put(context.Background(), "a", domain.PriceEstimate{Price: 1})
	cache.Put(context.Background(), "b", domain.PriceEstimate{Price: 2})

	mu.Lock()
	now = now.Add(30 * time.Minute)
	mu.Unlock()
	cache.Put(context.Background(), "c", domain.PriceEstimate{Price: 3})

	mu.Lock()
	now = now.Add(31 * time.Minute)
	mu.Unlock()

	sched, err := New(quietLogger(), CachePruneJob(cache, time.Minute))
	require.NoError(t, err)

	before := ptestutil.ToFloat64(metrics.CachePrunedTotal)
	require.NoError(t, sched.RunNow(context.Background(), JobCachePrune))

	assert.Equal(t, 1, cache.Len())
	assert.InDelta(t, before+2, ptestutil.ToFloat64(metrics.CachePrunedTotal), 0.0001)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.BreakerEvent
	err    error
}

func (f *fakeNotifier) SendBreakerEvent(_ context.Context, event *notify.BreakerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeNotifier) sent() []notify.BreakerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.BreakerEvent(nil), f.events...)
}

func (f *fakeNotifier) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// The breaker gauges are process-wide, so the steps below share one test
// and run in order.
func TestBreakerGaugesJob(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	b := estimate.NewBreaker(estimate.WithBreakerClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}))
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	n := &fakeNotifier{}
	sched, err := New(quietLogger(), BreakerGaugesJob(b, n, time.Minute))
	require.NoError(t, err)

	t.Run("closed breakers send nothing", func(t *testing.T) {
		require.NoError(t, sched.RunNow(context.Background(), JobBreakerGauges))
		assert.Empty(t, n.sent())
	})

	t.Run("nil notifier only refreshes gauges", func(t *testing.T) {
		quiet, err := New(quietLogger(), BreakerGaugesJob(b, nil, time.Minute))
		require.NoError(t, err)
		require.NoError(t, quiet.RunNow(context.Background(), JobBreakerGauges))
	})

	t.Run("open breaker publishes gauge and notifies", func(t *testing.T) {
		for range 3 {
			b.RecordFailure(estimate.ServiceLLM)
		}

		require.NoError(t, sched.RunNow(context.Background(), JobBreakerGauges))
		assert.InDelta(t, 1.0, ptestutil.ToFloat64(metrics.BreakerOpen.WithLabelValues(estimate.ServiceLLM)), 0.0001)
		assert.InDelta(t, 0.0, ptestutil.ToFloat64(metrics.BreakerOpen.WithLabelValues(estimate.ServiceMarketplace)), 0.0001)

		events := n.sent()
		require.Len(t, events, 1)
		assert.Equal(t, estimate.ServiceLLM, events[0].Service)
		assert.True(t, events[0].Open)
		assert.Equal(t, 3, events[0].FailureCount)
	})

	t.Run("unchanged state is not resent", func(t *testing.T) {
		require.NoError(t, sched.RunNow(context.Background(), JobBreakerGauges))
		assert.Len(t, n.sent(), 1)
	})

	t.Run("failed delivery is retried next run", func(t *testing.T) {
		advance(estimate.DefaultResetTimeout + time.Second)
		n.fail(errors.New("webhook down"))

		before := ptestutil.ToFloat64(metrics.NotificationFailuresTotal)
		err := sched.RunNow(context.Background(), JobBreakerGauges)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook down")
		assert.InDelta(t, before+1, ptestutil.ToFloat64(metrics.NotificationFailuresTotal), 0.0001)
		assert.InDelta(t, 0.0, ptestutil.ToFloat64(metrics.BreakerOpen.WithLabelValues(estimate.ServiceLLM)), 0.0001)

		n.fail(nil)
		require.NoError(t, sched.RunNow(context.Background(), JobBreakerGauges))

		events := n.sent()
		require.Len(t, events, 2)
		assert.Equal(t, estimate.ServiceLLM, events[1].Service)
		assert.False(t, events[1].Open)
	})
}

type fakeQuotaSyncer struct {
	state *ebay.QuotaState
	err   error
	calls int
}

func (f *fakeQuotaSyncer) SyncQuota(_ context.Context, rl *ebay.RateLimiter) (*ebay.QuotaState, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rl.Sync(*f.state)
	return f.state, nil
}

func TestQuotaSyncJob(t *testing.T) {
	t.Parallel()

	t.Run("applies server count", func(t *testing.T) {
		t.Parallel()

		rl := ebay.NewRateLimiter(10, 1, 5000)
		syncer := &fakeQuotaSyncer{state: &ebay.QuotaState{Count: 42, Limit: 5000}}

		sched, err := New(quietLogger(), QuotaSyncJob(syncer, rl, 15*time.Minute))
		require.NoError(t, err)

		require.NoError(t, sched.RunNow(context.Background(), JobEbayQuotaSync))
		assert.Equal(t, 1, syncer.calls)
		assert.Equal(t, int64(42), rl.DailyCount())
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		t.Parallel()

		rl := ebay.NewRateLimiter(10, 1, 5000)
		syncer := &fakeQuotaSyncer{err: errors.New("analytics down")}

		sched, err := New(quietLogger(), QuotaSyncJob(syncer, rl, 15*time.Minute))
		require.NoError(t, err)

		err = sched.RunNow(context.Background(), JobEbayQuotaSync)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "syncing ebay quota")
		assert.Equal(t, int64(0), rl.DailyCount())
	})
}
