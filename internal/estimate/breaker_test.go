package estimate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/bluberry/internal/estimate"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := estimate.NewBreaker(estimate.WithBreakerClock(clock.Now))

	assert.True(t, b.IsAvailable(estimate.ServiceMarketplace))

	b.RecordFailure(estimate.ServiceMarketplace)
	b.RecordFailure(estimate.ServiceMarketplace)
	assert.True(t, b.IsAvailable(estimate.ServiceMarketplace), "two failures stay below threshold")

	b.RecordFailure(estimate.ServiceMarketplace)
	assert.False(t, b.IsAvailable(estimate.ServiceMarketplace))
	assert.True(t, b.IsAvailable(estimate.ServiceLLM), "services are independent")
}

func TestBreaker_HealsAfterResetTimeout(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := estimate.NewBreaker(estimate.WithBreakerClock(clock.Now))

	for range 3 {
		b.RecordFailure(estimate.ServiceMarketplace)
	}
	assert.False(t, b.IsAvailable(estimate.ServiceMarketplace))

	clock.Advance(estimate.DefaultResetTimeout)
	assert.False(t, b.IsAvailable(estimate.ServiceMarketplace), "exactly at the timeout is still open")

	clock.Advance(time.Second)
	assert.True(t, b.IsAvailable(estimate.ServiceMarketplace))
	assert.Empty(t, b.States(), "healed state is deleted")
}

func TestBreaker_RecordSuccess(t *testing.T) {
	t.Parallel()

	b := estimate.NewBreaker()

	b.RecordSuccess(estimate.ServiceLLM)
	assert.Empty(t, b.States(), "success on unknown service is a no-op")

	for range 3 {
		b.RecordFailure(estimate.ServiceLLM)
	}
	assert.False(t, b.IsAvailable(estimate.ServiceLLM))

	b.RecordSuccess(estimate.ServiceLLM)
	assert.True(t, b.IsAvailable(estimate.ServiceLLM))
	assert.Equal(t, 2, b.States()[estimate.ServiceLLM].FailureCount)

	b.RecordSuccess(estimate.ServiceLLM)
	b.RecordSuccess(estimate.ServiceLLM)
	_, tracked := b.States()[estimate.ServiceLLM]
	assert.False(t, tracked, "state deleted at zero")
}

func TestBreaker_Options(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := estimate.NewBreaker(
		estimate.WithMaxFailures(1),
		estimate.WithResetTimeout(time.Minute),
		estimate.WithBreakerClock(clock.Now),
	)

	b.RecordFailure("x")
	assert.False(t, b.IsAvailable("x"))
	st := b.States()["x"]
	assert.Equal(t, 1, st.FailureCount)
	assert.Equal(t, clock.Now(), st.LastFailureAt)

	clock.Advance(61 * time.Second)
	assert.True(t, b.IsAvailable("x"))
}
