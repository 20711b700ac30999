package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/internal/mocks"
	"github.com/diillson/training-center-go/internal/testutils"
	"github.com/diillson/training-center-go/pkg/ratelimit"
	"github.com/diillson/training-center-go/pkg/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "good").Return(&security.Claims{UserID: 9, Role: 3}, nil)
	validator.On("ValidateToken", "bad").Return(nil, security.ErrTokenInvalid)

	router := testutils.SetupTestRouter(t)
	router.GET("/private", NewAuthMiddleware(validator, testutils.TestLogger(t)).Authenticate, func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserIDKey), "role": claims.Role})
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Unauthenticated."},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid authorization header."},
		{"empty token", "Bearer   ", http.StatusUnauthorized, "Invalid authorization header."},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, "Token is invalid or expired."},
		{"valid token", "bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			resp := testutils.MakeRequest(t, router, http.MethodGet, "/private", nil, headers)
			testutils.RequireHTTPStatus(t, resp, tt.status)

			var body map[string]interface{}
			testutils.ParseResponse(t, resp, &body)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.EqualValues(t, 9, body["user_id"])
				assert.EqualValues(t, 3, body["role"])
			}
		})
	}

	validator.AssertExpectations(t)
}

type stubLimiter struct {
	result ratelimit.Result
	err    error
}

func (s stubLimiter) Allow(ctx context.Context, cfg ratelimit.LimitConfig) (ratelimit.Result, error) {
	return s.result, s.err
}

func TestIPRateLimit(t *testing.T) {
	logger := testutils.TestLogger(t)
	m := metrics.NewAPIMetrics(prometheus.NewRegistry())

	newRouter := func(l ratelimit.Limiter) *gin.Engine {
		router := testutils.SetupTestRouter(t)
		rl := NewRateLimitMiddleware(l, 2, time.Minute, 1, m, logger)
		router.POST("/api/login", rl.IPRateLimit("login"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return router
	}

	t.Run("memory limiter blocks after the limit", func(t *testing.T) {
		router := newRouter(ratelimit.NewMemoryLimiter(time.Minute))

		for i := 0; i < 2; i++ {
			resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/login", nil, nil)
			testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)
			assert.Equal(t, "2", resp.Header().Get("X-RateLimit-Limit"))
		}

		resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/login", nil, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusTooManyRequests)
		assert.Equal(t, "0", resp.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, resp.Header().Get("Retry-After"))

		var body map[string]interface{}
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "Too Many Attempts.", body["message"])
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		router := newRouter(stubLimiter{err: errors.New("redis down")})

		resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/login", nil, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)
	})
}

func TestRequestID(t *testing.T) {
	router := testutils.SetupTestRouter(t)
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/", nil, nil)
	generated := resp.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, resp.Body.String())

	incoming := uuid.NewString()
	resp = testutils.MakeRequest(t, router, http.MethodGet, "/", nil, map[string]string{RequestIDHeader: incoming})
	assert.Equal(t, incoming, resp.Header().Get(RequestIDHeader))

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/", nil, map[string]string{RequestIDHeader: "<script>"})
	assert.NotEqual(t, "<script>", resp.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(NewRecoveryMiddleware(testutils.TestLogger(t), nil).Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/panic", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusInternalServerError)

	var body map[string]interface{}
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "internal server error", body["message"])
}

func TestCORS(t *testing.T) {
	router := testutils.SetupTestRouter(t)
	sec := NewSecurityMiddleware([]string{"https://app.example.com"}, testutils.TestLogger(t))
	router.Use(sec.Headers(), sec.CORS())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/", nil, map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header().Get("X-Content-Type-Options"))

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/", nil, map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
