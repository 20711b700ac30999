package middleware

import (
	"net/http"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/logging"
	"github.com/diillson/training-center-go/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *logging.ContextLogger
	authEnabled         bool
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware monta os middlewares. limiter pode ser nil quando o rate limit está desligado.
func NewMiddleware(cfg *config.Config, validator TokenValidator, limiter ratelimit.Limiter, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Middleware {
	m := &Middleware{
		logger:             logging.NewContextLogger(logger),
		authEnabled:        cfg.Auth.Enabled,
		authMiddleware:     NewAuthMiddleware(validator, logger),
		recoveryMiddleware: NewRecoveryMiddleware(logger, apiMetrics),
		securityMiddleware: NewSecurityMiddleware(cfg.Server.AllowedOrigins, logger),
		tracingMiddleware:  NewTracingMiddleware(cfg.Tracing.ServiceName, logger),
	}

	if apiMetrics != nil {
		m.metricsMiddleware = NewMetricsMiddleware(apiMetrics, logger)
	}
	if limiter != nil {
		m.rateLimitMiddleware = NewRateLimitMiddleware(limiter,
			cfg.RateLimit.Limit, cfg.RateLimit.Period, cfg.RateLimit.Burst, apiMetrics, logger)
	}

	return m
}

func noop(c *gin.Context) {
	c.Next()
}

// Metrics retorna o middleware de métricas, ou no-op se desligado
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return noop
}

// RateLimit limita por IP dentro do escopo, ou no-op se desligado
func (m *Middleware) RateLimit(scope string) gin.HandlerFunc {
	if m.rateLimitMiddleware != nil {
		return m.rateLimitMiddleware.IPRateLimit(scope)
	}
	return noop
}

// Authenticate exige bearer token válido; com auth.enabled=false deixa passar
func (m *Middleware) Authenticate(c *gin.Context) {
	if !m.authEnabled {
		c.Next()
		return
	}
	m.authMiddleware.Authenticate(c)
}

func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// IgnoreFavicon responde 204 para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger registra uma linha por requisição, com trace_id quando houver span
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(ContextRequestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			m.logger.ErrorCtx(ctx, "request completed", fields...)
		case status >= 400:
			m.logger.WarnCtx(ctx, "request completed", fields...)
		default:
			m.logger.InfoCtx(ctx, "request completed", fields...)
		}
	}
}

func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}
