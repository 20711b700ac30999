package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/diillson/training-center-go/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingerFunc(func(context.Context) error { return nil })
	down = pingerFunc(func(context.Context) error { return errors.New("connection refused") })
)

func TestHealthChecker(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  Pinger
		wantStatus int
		wantText   string
	}{
		{"all up", up, up, http.StatusOK, "UP"},
		{"cache down is tolerated", up, down, http.StatusOK, "UP"},
		{"database down", down, up, http.StatusServiceUnavailable, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker(tt.db, tt.cache, testutils.TestLogger(t))
			router := testutils.SetupTestRouter(t)
			router.GET("/health", h.DetailedHealth)
			router.GET("/health/readiness", h.ReadinessCheck)
			router.GET("/health/liveness", h.LivenessCheck)

			resp := testutils.MakeRequest(t, router, http.MethodGet, "/health/readiness", nil, nil)
			testutils.RequireHTTPStatus(t, resp, tt.wantStatus)

			var body struct {
				Status string                    `json:"status"`
				Checks map[string]map[string]any `json:"checks"`
			}
			testutils.ParseResponse(t, resp, &body)
			assert.Equal(t, tt.wantText, body.Status)
			require.Contains(t, body.Checks, "database")
			require.Contains(t, body.Checks, "cache")
			assert.NotContains(t, body.Checks["database"], "error", "readiness omite erros")

			resp = testutils.MakeRequest(t, router, http.MethodGet, "/health", nil, nil)
			testutils.RequireHTTPStatus(t, resp, tt.wantStatus)
			testutils.ParseResponse(t, resp, &body)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "connection refused", body.Checks["database"]["error"])
			}

			// liveness não depende de nada
			resp = testutils.MakeRequest(t, router, http.MethodGet, "/health/liveness", nil, nil)
			testutils.RequireHTTPStatus(t, resp, http.StatusOK)
		})
	}
}
