package service

import (
	"fmt"

	"github.com/diillson/training-center-go/internal/app/account"
	"github.com/diillson/training-center-go/internal/app/auth"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/cache"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/security"
	"go.uber.org/zap"
)

// Services contém todos os serviços da aplicação
type Services struct {
	AccountService *account.Service
	AuthService    *auth.AuthService
	KeyManager     *security.KeyManager
}

// NewServices cria os serviços de conta e de autenticação sobre os mesmos repositórios
func NewServices(cfg *config.Config, repos repository.Repositories, uow repository.UnitOfWork, c cache.Cache, m *metrics.APIMetrics, logger *zap.Logger) (*Services, error) {
	secret := security.ResolveJWTSecret(cfg.Auth.JWTSecret)
	if !cfg.Auth.Enabled && len(secret) < 32 {
		var err error
		if secret, err = security.RandomSecret(); err != nil {
			return nil, err
		}
		logger.Warn("Autenticação desligada: tokens assinados com segredo efêmero")
	}

	keyManager, err := security.NewKeyManager(secret, logger)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar gerenciador de chaves: %w", err)
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	accountService := account.NewService(repos, uow, hasher, logger,
		account.WithCache(c, cfg.Cache.TTL),
		account.WithMetrics(m),
	)

	authService := auth.NewAuthService(keyManager, repos.Users, repos.Roles, hasher,
		cfg.Auth.TokenExpiration, logger)

	return &Services{
		AccountService: accountService,
		AuthService:    authService,
		KeyManager:     keyManager,
	}, nil
}
