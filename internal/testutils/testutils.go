package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diillson/training-center-go/internal/adapter/database"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestJWTSecret tem o tamanho mínimo exigido pelo KeyManager
const TestJWTSecret = "test-secret-with-at-least-32-bytes!!"

// TestLogger cria um logger zap para testes
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestConfig parte dos defaults, com SQLite em memória, bcrypt barato e rate limit desligado
func TestConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Database = TestDatabaseConfig(t)
	cfg.Auth.JWTSecret = TestJWTSecret
	cfg.Auth.BcryptCost = 4
	cfg.RateLimit.Enabled = false
	cfg.Tracing.Enabled = false
	return cfg
}

// TestDatabaseConfig aponta para um banco SQLite em memória exclusivo do teste.
// Uma única conexão mantém o banco vivo e serializa as transações.
func TestDatabaseConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:         "sqlite",
		DSN:            fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()),
		MaxIdleConns:   1,
		MaxOpenConns:   1,
		LogLevel:       "silent",
		SlowThreshold:  time.Second,
		SkipMigrations: true,
		AutoMigrate:    true,
	}
}

// NewTestDatabase abre o banco em memória com o schema aplicado e fecha no fim do teste
func NewTestDatabase(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.NewDatabase(context.Background(), TestDatabaseConfig(t), TestLogger(t))
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// SetupTestRouter configura um router Gin para testes
func SetupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	return router
}

// BearerHeader monta o cabeçalho Authorization
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest executa uma requisição HTTP de teste
func MakeRequest(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody io.Reader

	if body != nil {
		switch v := body.(type) {
		case string:
			reqBody = strings.NewReader(v)
		case []byte:
			reqBody = strings.NewReader(string(v))
		default:
			jsonData, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBody = strings.NewReader(string(jsonData))
		}
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err, "Failed to create HTTP request")

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

// ParseResponse analisa a resposta JSON para uma estrutura
func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, dst interface{}) {
	require.NotNil(t, resp, "Response recorder is nil")

	err := json.Unmarshal(resp.Body.Bytes(), dst)
	require.NoError(t, err, "Failed to parse response: %s", resp.Body.String())
}

// RequireHTTPStatus verifica o status HTTP da resposta
func RequireHTTPStatus(t *testing.T, resp *httptest.ResponseRecorder, status int) {
	require.Equal(t, status, resp.Code, "Expected HTTP status %d but got %d, body: %s",
		status, resp.Code, resp.Body.String())
}

// RequireJSONContentType verifica se o Content-Type da resposta é JSON
func RequireJSONContentType(t *testing.T, resp *httptest.ResponseRecorder) {
	contentType := resp.Header().Get("Content-Type")
	require.Contains(t, contentType, "application/json",
		"Expected Content-Type to contain application/json but got %s", contentType)
}

// ContextWithTimeout cria um contexto com timeout para testes
func ContextWithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
