package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// incrWindow incrementa o contador da janela e fixa a expiração no primeiro hit
var incrWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIREAT', KEYS[1], tonumber(ARGV[1]))
end
return count
`)

// RedisLimiter implementa rate limiting compartilhado entre réplicas
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("training-center.ratelimit"),
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, config LimitConfig) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "RedisLimiter.Allow",
		trace.WithAttributes(
			attribute.String("ratelimit.key", config.Key),
			attribute.Int("ratelimit.limit", config.Limit),
			attribute.Int64("ratelimit.period_ms", config.Period.Milliseconds()),
		),
	)
	defer span.End()

	config, err := config.validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Allowed: true}, err
	}

	start, resetAfter := config.window(time.Now())
	expireAt := start + int64(config.Period.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", config.Key, start)

	count, err := incrWindow.Run(ctx, r.client, []string{key}, expireAt).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = errors.New("resultado inválido do Redis")
		}
		r.logger.Error("erro ao executar script de rate limit", zap.Error(err))
		span.SetStatus(codes.Error, "redis script error")
		span.SetAttributes(attribute.String("error.message", err.Error()))
		return Result{Allowed: true, Limit: config.Limit, Remaining: config.Limit, ResetAfter: resetAfter}, err
	}

	res := result(config, count, resetAfter)
	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Bool("ratelimit.allowed", res.Allowed),
	)
	if !res.Allowed {
		span.SetStatus(codes.Error, "rate limit exceeded")
	}

	return res, nil
}
