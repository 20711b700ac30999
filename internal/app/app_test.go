package app_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/diillson/training-center-go/internal/app"
	"github.com/diillson/training-center-go/internal/testutils"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Message  string                   `json:"message"`
	Success  string                   `json:"success"`
	Fail     string                   `json:"fail"`
	Details  map[string][]string      `json:"details"`
	User     map[string]interface{}   `json:"user"`
	Trainer  map[string]interface{}   `json:"trainer"`
	Trainers []map[string]interface{} `json:"trainers"`

	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newRouter(t *testing.T, mutate ...func(*config.Config)) *gin.Engine {
	cfg := testutils.TestConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	application, err := app.NewAppWithDatabase(cfg, testutils.NewTestDatabase(t), testutils.TestLogger(t))
	require.NoError(t, err)

	router := testutils.SetupTestRouter(t)
	application.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any, token string) (int, apiResponse) {
	headers := map[string]string{}
	if token != "" {
		headers = testutils.BearerHeader(token)
	}

	resp := testutils.MakeRequest(t, router, method, path, body, headers)
	testutils.RequireJSONContentType(t, resp)

	var out apiResponse
	testutils.ParseResponse(t, resp, &out)
	return resp.Code, out
}

func centerBody(email string) map[string]string {
	return map[string]string{
		"email":               email,
		"password":            "secret",
		"first_name":          "Ana",
		"last_name":           "Silva",
		"phone":               "11999990000",
		"tax_identity_number": "12345678000190",
	}
}

func trainerBody(email string) map[string]string {
	return map[string]string{
		"email":      email,
		"password":   "secret",
		"first_name": "Bruno",
		"last_name":  "Costa",
		"phone":      "21988881111",
	}
}

// registerAndLogin cria um centro e devolve o token dele
func registerAndLogin(t *testing.T, router *gin.Engine) string {
	status, body := do(t, router, http.MethodPost, "/api/register/training-center", centerBody("center@example.com"), "")
	require.Equal(t, http.StatusCreated, status, "%+v", body)

	status, body = do(t, router, http.MethodPost, "/api/login",
		map[string]string{"email": "center@example.com", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, status, "%+v", body)
	return body.AccessToken
}

func TestRegisterTrainingCenter(t *testing.T) {
	router := newRouter(t)

	t.Run("created", func(t *testing.T) {
		status, body := do(t, router, http.MethodPost, "/api/register/training-center", centerBody("new@example.com"), "")
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "User successfully registered", body.Message)
		assert.Equal(t, "new@example.com", body.User["email"])
		assert.NotContains(t, body.User, "password")
	})

	t.Run("invalid fields are reported with 400", func(t *testing.T) {
		in := centerBody("bad-email")
		delete(in, "phone")

		status, body := do(t, router, http.MethodPost, "/api/register/training-center", in, "")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"The email must be a valid email address."}, body.Details["email"])
		assert.Equal(t, []string{"The phone field is required."}, body.Details["phone"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		status, body := do(t, router, http.MethodPost, "/api/register/training-center", centerBody("NEW@example.com"), "")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"The email has already been taken."}, body.Details["email"])
	})

	t.Run("malformed body", func(t *testing.T) {
		status, body := do(t, router, http.MethodPost, "/api/register/training-center", "{not json", "")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, body.Details, "body")
	})
}

func TestLogin(t *testing.T) {
	router := newRouter(t)
	token := registerAndLogin(t, router)
	assert.NotEmpty(t, token)

	status, body := do(t, router, http.MethodPost, "/api/login",
		map[string]string{"email": "CENTER@example.com", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), body.ExpiresIn)

	status, _ = do(t, router, http.MethodPost, "/api/login",
		map[string]string{"email": "center@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, router, http.MethodPost, "/api/login",
		map[string]string{"email": "nobody@example.com", "password": "secret"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/create/trainer"},
		{http.MethodDelete, "/api/delete/trainer/1"},
		{http.MethodPost, "/api/update/trainer/1"},
		{http.MethodPost, "/api/trainers/list"},
		{http.MethodPost, "/api/trainer/1"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, body := do(t, router, r.method, r.path, map[string]string{}, "")
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Unauthenticated.", body.Message)

			status, _ = do(t, router, r.method, r.path, map[string]string{}, "not-a-jwt")
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestTrainerLifecycle(t *testing.T) {
	router := newRouter(t)
	token := registerAndLogin(t, router)

	status, body := do(t, router, http.MethodPost, "/api/trainers/list", nil, token)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Trainers not found!", body.Fail)

	// criação inválida é 422
	status, body = do(t, router, http.MethodPost, "/api/create/trainer",
		map[string]string{"email": "t@example.com"}, token)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"The first name field is required."}, body.Details["first_name"])
	assert.Equal(t, []string{"The password field is required."}, body.Details["password"])

	status, body = do(t, router, http.MethodPost, "/api/create/trainer", trainerBody("trainer@example.com"), token)
	require.Equal(t, http.StatusCreated, status, "%+v", body)
	assert.Equal(t, "User successfully registered", body.Message)
	userID := uint(body.User["user_id"].(float64))
	require.NotZero(t, userID)
	assert.NotContains(t, body.User, "password")

	status, body = do(t, router, http.MethodPost, "/api/create/trainer", trainerBody("center@example.com"), token)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"The email has already been taken."}, body.Details["email"])

	status, body = do(t, router, http.MethodPost, "/api/trainers/list", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Trainers, 1)
	assert.Equal(t, "trainer@example.com", body.Trainers[0]["email"])
	require.Contains(t, body.Trainers[0], "trainer")

	trainerPath := fmt.Sprintf("/api/trainer/%d", userID)
	status, body = do(t, router, http.MethodPost, trainerPath, nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bruno", body.Trainer["first_name"])

	// atualização
	updatePath := fmt.Sprintf("/api/update/trainer/%d", userID)
	status, body = do(t, router, http.MethodPost, updatePath, map[string]string{"email": "broken"}, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Details, "email")

	status, body = do(t, router, http.MethodPost, updatePath,
		map[string]string{"first_name": "Carla", "email": "carla@example.com"}, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully updated", body.Success)

	status, body = do(t, router, http.MethodPost, trainerPath, nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Carla", body.Trainer["first_name"])
	assert.Equal(t, "carla@example.com", body.Trainer["email"])

	status, _ = do(t, router, http.MethodPost, "/api/update/trainer/999", map[string]string{"first_name": "X"}, token)
	assert.Equal(t, http.StatusNotFound, status)

	// exclusão
	status, _ = do(t, router, http.MethodDelete, "/api/delete/trainer/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, status)

	deletePath := fmt.Sprintf("/api/delete/trainer/%d", userID)
	status, body = do(t, router, http.MethodDelete, deletePath, nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully deleted!", body.Success)

	status, body = do(t, router, http.MethodDelete, deletePath, nil, token)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Trainer not found", body.Message)

	status, body = do(t, router, http.MethodPost, trainerPath, nil, token)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Trainer not found!", body.Fail)

	status, _ = do(t, router, http.MethodPost, "/api/trainers/list", nil, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTrainingCenterAsTrainerIsNotFound(t *testing.T) {
	router := newRouter(t)
	token := registerAndLogin(t, router)

	// o centro é o usuário 1 e não tem perfil de treinador
	status, _ := do(t, router, http.MethodDelete, "/api/delete/trainer/1", nil, token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodPost, "/api/login",
		map[string]string{"email": "center@example.com", "password": "secret"}, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRateLimitOnPublicRoutes(t *testing.T) {
	router := newRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Limit = 1
		cfg.RateLimit.Burst = 1
		cfg.RateLimit.Period = time.Minute
	})

	creds := map[string]string{"email": "x@example.com", "password": "secret"}
	status, _ := do(t, router, http.MethodPost, "/api/login", creds, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, router, http.MethodPost, "/api/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too Many Attempts.", body.Message)

	// escopos separados
	status, _ = do(t, router, http.MethodPost, "/api/register/training-center", centerBody("rl@example.com"), "")
	assert.Equal(t, http.StatusCreated, status)
}

func TestAuthDisabled(t *testing.T) {
	router := newRouter(t, func(cfg *config.Config) {
		cfg.Auth.Enabled = false
		cfg.Auth.JWTSecret = ""
	})

	status, _ := do(t, router, http.MethodPost, "/api/trainers/list", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/health", "/health/liveness", "/health/readiness"} {
		resp := testutils.MakeRequest(t, router, http.MethodGet, path, nil, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var body map[string]interface{}
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "UP", body["status"], path)
	}

	_ = registerAndLogin(t, router)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/metrics", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	metrics := resp.Body.String()
	assert.True(t, strings.Contains(metrics, `training_center_account_operations_total{operation="register_training_center",outcome="ok"} 1`), metrics)
	assert.Contains(t, metrics, "training_center_requests_total")
}
