package middleware

import (
	"net/http"
	"strings"

	"github.com/diillson/training-center-go/pkg/security"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextClaimsKey guarda as *security.Claims do token validado
	ContextClaimsKey = "claims"
	// ContextUserIDKey guarda o id (uint) do usuário autenticado
	ContextUserIDKey = "user_id"
)

// TokenValidator é implementado por auth.AuthService
type TokenValidator interface {
	ValidateToken(tokenString string) (*security.Claims, error)
}

// AuthMiddleware exige um bearer token válido
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate rejeita com 401 requisições sem token ou com token inválido/expirado
func (m *AuthMiddleware) Authenticate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}

	tokenString, ok := bearerToken(authHeader)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header."})
		return
	}

	claims, err := m.validator.ValidateToken(tokenString)
	if err != nil {
		m.logger.Debug("token rejeitado", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid or expired."})
		return
	}

	c.Set(ContextClaimsKey, claims)
	c.Set(ContextUserIDKey, claims.UserID)
	c.Next()
}

// bearerToken aceita "Bearer" em qualquer caixa, como a RFC 6750 permite
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFromContext recupera as claims gravadas pelo Authenticate
func ClaimsFromContext(c *gin.Context) (*security.Claims, bool) {
	value, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*security.Claims)
	return claims, ok
}
