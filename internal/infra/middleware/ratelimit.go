package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware limita requisições por IP nas rotas públicas
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	limit   int
	period  time.Duration
	burst   float64
	metrics *metrics.APIMetrics
	logger  *zap.Logger
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, limit int, period time.Duration, burst float64, m *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
		period:  period,
		burst:   burst,
		metrics: m,
		logger:  logger,
	}
}

// IPRateLimit conta por IP dentro do escopo informado (ex.: "register", "login").
// Falha do limitador não bloqueia a requisição.
func (m *RateLimitMiddleware) IPRateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := m.limiter.Allow(c.Request.Context(), ratelimit.LimitConfig{
			Key:         scope + ":" + c.ClientIP(),
			Limit:       m.limit,
			Period:      m.period,
			BurstFactor: m.burst,
		})
		if err != nil {
			m.logger.Error("erro ao verificar rate limit", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if !res.Allowed {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RateLimitExceeded(path, c.Request.Method, "ip_limit")
			m.logger.Warn("rate limit excedido",
				zap.String("scope", scope),
				zap.String("ip", c.ClientIP()))

			retryAfter := int(res.ResetAfter.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "Too Many Attempts.",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
