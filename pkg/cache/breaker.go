package cache

import (
	"context"
	"errors"
	"time"

	"github.com/diillson/training-center-go/pkg/resilience"
)

// BreakerCache envolve um Cache remoto com circuit breaker. Com o circuito
// aberto, leituras viram miss e escritas são descartadas, e o serviço segue
// consultando o banco.
type BreakerCache struct {
	inner   Cache
	breaker *resilience.CircuitBreaker
}

func NewBreakerCache(inner Cache, breaker *resilience.CircuitBreaker) *BreakerCache {
	return &BreakerCache{inner: inner, breaker: breaker}
}

func (c *BreakerCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.inner.Set(ctx, key, value, expiration)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (c *BreakerCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var found bool
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		found, err = c.inner.Get(ctx, key, dest)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false, nil
	}
	return found, err
}

// Delete devolve ErrCircuitOpen: uma invalidação perdida deixaria dado velho no cache
func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	return c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.inner.Delete(ctx, key)
	})
}

func (c *BreakerCache) Clear(ctx context.Context) error {
	return c.breaker.Do(ctx, c.inner.Clear)
}

// Ping ignora o breaker para o health check ver o estado real
func (c *BreakerCache) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *BreakerCache) Close() error {
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
