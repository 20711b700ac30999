package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/resilience"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// KeyPrefix é aplicado a todas as chaves gravadas pelo serviço
const KeyPrefix = "trainingcenter:"

// Cache define a interface para operações de cache
type Cache interface {
	// Set armazena um valor no cache com tempo de expiração
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Get recupera um valor do cache; o bool indica hit
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Delete remove um valor do cache
	Delete(ctx context.Context, key string) error

	// Clear remove todos os valores do cache
	Clear(ctx context.Context) error

	// Ping verifica se o cache está acessível
	Ping(ctx context.Context) error
}

// New monta o cache a partir da configuração. Cache desabilitado vira NoOpCache;
// o Redis é envolvido por um circuit breaker quando configurado.
func New(cfg config.CacheConfig, m *metrics.APIMetrics, logger *zap.Logger) (Cache, error) {
	if !cfg.Enabled {
		return &NoOpCache{}, nil
	}

	switch cfg.Type {
	case "memory":
		return NewMemoryCache(cfg.TTL, 2*cfg.TTL, cfg.MaxItems, m, logger), nil
	case "redis":
		client, err := NewRedisClientWithConfig(RedisOptionsFromConfig(cfg.Redis), logger)
		if err != nil {
			return nil, err
		}
		var c Cache = NewRedisCacheWithClient(client, m, logger)
		if cfg.Breaker.Enabled {
			cb := resilience.NewCircuitBreaker(resilience.Config{
				Name:             "cache.redis",
				FailureThreshold: cfg.Breaker.FailureThreshold,
				ResetTimeout:     cfg.Breaker.ResetTimeout,
				HalfOpenMaxCalls: cfg.Breaker.HalfOpenMaxCalls,
			}, logger, m)
			c = NewBreakerCache(c, cb)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("tipo de cache inválido: %s", cfg.Type)
	}
}

// RedisOptionsFromConfig converte a configuração para redis.Options
func RedisOptionsFromConfig(cfg config.RedisOptions) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		MaxConnAge:   cfg.MaxConnAge,
	}
}
