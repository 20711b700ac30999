package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RedisCache implementa a interface Cache usando Redis
type RedisCache struct {
	client  *redis.Client
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.APIMetrics
	hits    int64
	misses  int64
}

// NewRedisCacheWithClient cria um RedisCache sobre um cliente já conectado
func NewRedisCacheWithClient(client *redis.Client, m *metrics.APIMetrics, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client:  client,
		logger:  logger,
		tracer:  otel.GetTracerProvider().Tracer("training-center.cache.redis"),
		metrics: m,
	}
}

// NewRedisClientWithConfig abre o cliente e valida a conexão com um ping
func NewRedisClientWithConfig(opts *redis.Options, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Falha ao conectar ao Redis",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		_ = client.Close()
		return nil, err
	}

	logger.Info("Conexão com Redis estabelecida com sucesso",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB))

	return client, nil
}

func (c *RedisCache) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func spanError(span trace.Span, desc string, err error) {
	span.SetStatus(codes.Error, desc)
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, span := c.startSpan(ctx, "RedisCache.Set",
		attribute.String("cache.key", key),
		attribute.Int64("cache.expiration_ms", expiration.Milliseconds()),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar para cache", zap.Error(err))
		spanError(span, "serialization failure", err)
		return err
	}
	span.SetAttributes(attribute.Int("cache.data_size_bytes", len(data)))

	if err := c.client.Set(ctx, KeyPrefix+key, data, expiration).Err(); err != nil {
		c.logger.Error("falha ao armazenar no Redis", zap.String("key", key), zap.Error(err))
		spanError(span, "redis error", err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ctx, span := c.startSpan(ctx, "RedisCache.Get", attribute.String("cache.key", key))
	defer span.End()

	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			// Cache miss não é erro
			span.SetAttributes(attribute.Bool("cache.hit", false))
			c.recordLookup(false)
			return false, nil
		}
		c.logger.Error("falha ao recuperar do cache", zap.String("key", key), zap.Error(err))
		spanError(span, "redis error", err)
		return false, err
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", true),
		attribute.Int("cache.data_size_bytes", len(data)),
	)
	c.recordLookup(true)

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar do cache", zap.String("key", key), zap.Error(err))
		spanError(span, "deserialization failure", err)
		return false, err
	}

	span.SetStatus(codes.Ok, "cache hit")
	return true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := c.startSpan(ctx, "RedisCache.Delete", attribute.String("cache.key", key))
	defer span.End()

	removed, err := c.client.Del(ctx, KeyPrefix+key).Result()
	if err != nil {
		c.logger.Error("falha ao remover do cache", zap.String("key", key), zap.Error(err))
		spanError(span, "redis error", err)
		return err
	}

	span.SetAttributes(attribute.Int64("cache.keys_removed", removed))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Clear remove apenas as chaves com o prefixo do serviço
func (c *RedisCache) Clear(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "RedisCache.Clear", attribute.String("cache.pattern", KeyPrefix+"*"))
	defer span.End()

	var removed int64
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			spanError(span, "redis delete error", err)
			return err
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("falha ao listar chaves do cache", zap.Error(err))
		spanError(span, "redis scan error", err)
		return err
	}

	span.SetAttributes(attribute.Int64("cache.keys_removed", removed))
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "RedisCache.Ping")
	defer span.End()

	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.Warn("falha ao fazer ping no Redis", zap.Error(err))
		spanError(span, "redis ping failure", err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Client expõe o cliente para o rate limiter compartilhar a conexão
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) recordLookup(hit bool) {
	var hits, misses int64
	if hit {
		hits = atomic.AddInt64(&c.hits, 1)
		misses = atomic.LoadInt64(&c.misses)
	} else {
		misses = atomic.AddInt64(&c.misses, 1)
		hits = atomic.LoadInt64(&c.hits)
	}
	updateCacheMetrics(hits, misses, "redis", c.metrics)
}

// Close fecha o cliente Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}
