package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter conta requisições no próprio processo com go-cache.
// Serve para uma instância só; com várias réplicas use o RedisLimiter.
type MemoryLimiter struct {
	counters *cache.Cache
	now      func() time.Time
}

func NewMemoryLimiter(cleanupInterval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counters: cache.New(cache.NoExpiration, cleanupInterval),
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, config LimitConfig) (Result, error) {
	config, err := config.validate()
	if err != nil {
		return Result{Allowed: true}, err
	}

	start, resetAfter := config.window(l.now())
	key := fmt.Sprintf("ratelimit:%s:%d", config.Key, start)

	// Add falha se a janela já existe; nesse caso só incrementa
	_ = l.counters.Add(key, int64(0), resetAfter)
	count, err := l.counters.IncrementInt64(key, 1)
	if err != nil {
		return Result{Allowed: true}, fmt.Errorf("falha ao incrementar contador: %w", err)
	}

	return result(config, int(count), resetAfter), nil
}
