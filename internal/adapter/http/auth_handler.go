package http

import (
	"net/http"

	"github.com/diillson/training-center-go/internal/app/account"
	"github.com/diillson/training-center-go/internal/app/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler troca credenciais por um bearer token
type AuthHandler struct {
	service *auth.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login responde 401 tanto para email desconhecido quanto para senha errada
func (h *AuthHandler) Login(c *gin.Context) {
	var in account.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, account.FromValidator(err), http.StatusUnprocessableEntity)
		return
	}

	session, err := h.service.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, session)
}
