package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"github.com/diillson/training-center-go/pkg/security"
	"go.uber.org/zap"
)

// ErrInvalidCredentials é devolvido para email inexistente e senha errada
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// TokenIssuer é implementado por security.KeyManager
type TokenIssuer interface {
	GenerateToken(userID uint, role int, duration time.Duration) (string, error)
	VerifyToken(tokenString string) (*security.Claims, error)
}

// PasswordVerifier é implementado por security.BcryptHasher
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Session é o resultado de um login
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

// AuthService emite e valida tokens de acesso
type AuthService struct {
	tokens   TokenIssuer
	users    repository.UserRepository
	roles    repository.RoleRepository
	verifier PasswordVerifier
	ttl      time.Duration
	logger   *zap.Logger

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(tokens TokenIssuer, users repository.UserRepository, roles repository.RoleRepository, verifier PasswordVerifier, ttl time.Duration, logger *zap.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		tokens:   tokens,
		users:    users,
		roles:    roles,
		verifier: verifier,
		ttl:      ttl,
		logger:   logger.Named("auth"),
	}
}

// Login autentica pelo email e senha e gera um token JWT com o papel do usuário
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// compara mesmo assim para o tempo de resposta não revelar quais emails existem
			_ = s.verifier.Compare(s.dummyHash(), password)
			s.logger.Warn("Falha na autenticação: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.verifier.Compare(user.Password, password); err != nil {
		s.logger.Warn("Falha na autenticação: senha inválida", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	role, err := s.primaryRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, int(role), s.ttl)
	if err != nil {
		s.logger.Error("Falha ao gerar token", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Login bem-sucedido", zap.Uint("user_id", user.ID), zap.Stringer("role", role))
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
		User:        user,
	}, nil
}

// ValidateToken confere assinatura e validade. O usuário não é recarregado:
// a exigência para as rotas protegidas é só um token válido.
func (s *AuthService) ValidateToken(tokenString string) (*security.Claims, error) {
	return s.tokens.VerifyToken(tokenString)
}

// dummyHash é gerado uma vez, com o mesmo custo dos hashes reais
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.verifier.Hash("login-with-unknown-email")
		if err != nil {
			s.logger.Warn("Falha ao gerar hash de comparação", zap.Error(err))
			return
		}
		s.dummy = h
	})
	return s.dummy
}

func (s *AuthService) primaryRole(ctx context.Context, userID uint) (model.Role, error) {
	roles, err := s.roles.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(roles) == 0 {
		return 0, nil
	}
	return roles[0].RoleID, nil
}
