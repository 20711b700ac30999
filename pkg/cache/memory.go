package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MemoryCache implementa Cache em memória local com go-cache.
// Os valores são guardados já serializados em JSON, então quem lê
// recebe sempre uma cópia e nunca compartilha ponteiros com quem gravou.
type MemoryCache struct {
	cache    *cache.Cache
	maxItems int
	logger   *zap.Logger
	hits    int64
	misses  int64
	metrics *metrics.APIMetrics
}

// NewMemoryCache cria o cache local. maxItems <= 0 deixa o cache sem limite.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration, maxItems int, m *metrics.APIMetrics, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		cache:    cache.New(defaultExpiration, cleanupInterval),
		maxItems: maxItems,
		logger:   logger,
		metrics:  m,
	}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar para cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if c.full(KeyPrefix + key) {
		c.logger.Debug("cache em memória cheio, valor não armazenado",
			zap.String("key", key), zap.Int("max_items", c.maxItems))
		return nil
	}

	c.cache.Set(KeyPrefix+key, data, expiration)
	return nil
}

// full indica que gravar uma chave nova passaria de maxItems.
// Sobrescrever uma chave existente é sempre permitido.
func (c *MemoryCache) full(key string) bool {
	if c.maxItems <= 0 {
		return false
	}
	if _, exists := c.cache.Get(key); exists {
		return false
	}
	if c.cache.ItemCount() < c.maxItems {
		return false
	}
	c.cache.DeleteExpired()
	return c.cache.ItemCount() >= c.maxItems
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, found := c.cache.Get(KeyPrefix + key)
	if !found {
		c.recordLookup(false)
		return false, nil
	}
	c.recordLookup(true)

	data, ok := value.([]byte)
	if !ok {
		c.cache.Delete(KeyPrefix + key)
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar do cache", zap.String("key", key), zap.Error(err))
		return false, err
	}

	return true, nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(KeyPrefix + key)
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Ping sempre tem sucesso: o cache em memória está no próprio processo
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

func (c *MemoryCache) recordLookup(hit bool) {
	var hits, misses int64
	if hit {
		hits = atomic.AddInt64(&c.hits, 1)
		misses = atomic.LoadInt64(&c.misses)
	} else {
		misses = atomic.AddInt64(&c.misses, 1)
		hits = atomic.LoadInt64(&c.hits)
	}
	updateCacheMetrics(hits, misses, "memory", c.metrics)
}

func updateCacheMetrics(hits, misses int64, cacheType string, m *metrics.APIMetrics) {
	if m == nil {
		return
	}

	if total := hits + misses; total > 0 {
		m.UpdateCacheHitRatio(cacheType, float64(hits)/float64(total))
	}
}
