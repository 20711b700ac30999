package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errBoom = errors.New("boom")

func failing(context.Context) error    { return errBoom }
func succeeding(context.Context) error { return nil }

// fakeClock permite avançar o tempo sem sleep
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(t *testing.T) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(Config{
		Name:             "test",
		FailureThreshold: 2,
		ResetTimeout:     time.Second,
		HalfOpenMaxCalls: 1,
	}, zaptest.NewLogger(t), nil)
	cb.now = clock.now
	cb.windowStart = clock.t
	return cb, clock
}

func tripOpen(t *testing.T, cb *CircuitBreaker) {
	ctx := context.Background()
	_ = cb.Do(ctx, failing)
	_ = cb.Do(ctx, failing)
	require.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb, _ := newTestBreaker(t)
	ctx := context.Background()

	assert.ErrorIs(t, cb.Do(ctx, failing), errBoom)
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.Do(ctx, failing), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb, _ := newTestBreaker(t)
	ctx := context.Background()

	_ = cb.Do(ctx, failing)
	require.NoError(t, cb.Do(ctx, succeeding))
	_ = cb.Do(ctx, failing)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_WindowExpiresFailures(t *testing.T) {
	cb, clock := newTestBreaker(t)
	ctx := context.Background()

	_ = cb.Do(ctx, failing)
	clock.advance(2 * time.Minute)
	_ = cb.Do(ctx, failing)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb, _ := newTestBreaker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cb.Do(ctx, func(context.Context) error { return context.Canceled })
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("success closes", func(t *testing.T) {
		cb, clock := newTestBreaker(t)
		tripOpen(t, cb)

		clock.advance(500 * time.Millisecond)
		assert.ErrorIs(t, cb.Do(context.Background(), succeeding), ErrCircuitOpen)

		clock.advance(time.Second)
		require.NoError(t, cb.Do(context.Background(), succeeding))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failure reopens", func(t *testing.T) {
		cb, clock := newTestBreaker(t)
		tripOpen(t, cb)

		clock.advance(2 * time.Second)
		assert.ErrorIs(t, cb.Do(context.Background(), failing), errBoom)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("only one trial call at a time", func(t *testing.T) {
		cb, clock := newTestBreaker(t)
		tripOpen(t, cb)
		clock.advance(2 * time.Second)

		release := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = cb.Do(context.Background(), func(context.Context) error {
				<-release
				return nil
			})
		}()

		require.Eventually(t, func() bool { return cb.State() == StateHalfOpen }, time.Second, time.Millisecond)
		assert.ErrorIs(t, cb.Do(context.Background(), succeeding), ErrCircuitOpen)

		close(release)
		<-done
		assert.Equal(t, StateClosed, cb.State())
	})
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	var out dto.Metric
	require.NoError(t, g.Write(&out))
	return out.GetGauge().GetValue()
}

func TestCircuitBreaker_ReportsStateGauge(t *testing.T) {
	m := metrics.NewAPIMetrics(prometheus.NewRegistry())
	cb, _ := newTestBreaker(t)
	cb.metrics = m

	tripOpen(t, cb)
	assert.Equal(t, 1.0, gaugeValue(t, m.CircuitBreakerGauge("test")))

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0.0, gaugeValue(t, m.CircuitBreakerGauge("test")))
}
