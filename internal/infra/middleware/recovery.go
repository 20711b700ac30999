package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware devolve 500 quando um handler entra em pânico.
// A transação aberta pelo serviço já foi desfeita pelo gorm nesse ponto.
type RecoveryMiddleware struct {
	logger  *logging.ContextLogger
	metrics *metrics.APIMetrics
}

func NewRecoveryMiddleware(logger *zap.Logger, m *metrics.APIMetrics) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:  logging.NewContextLogger(logger),
		metrics: m,
	}
}

func (m *RecoveryMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RequestError(path, c.Request.Method, "panic")
			m.logger.ErrorCtx(c.Request.Context(), "pânico no handler",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("path", path),
				zap.String("method", c.Request.Method),
				zap.String("request_id", c.GetString(ContextRequestIDKey)),
				zap.ByteString("stack", debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "internal server error",
			})
		}()

		c.Next()
	}
}
