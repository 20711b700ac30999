package app

import (
	"context"
	"fmt"

	"github.com/diillson/training-center-go/internal/adapter/database"
	"github.com/diillson/training-center-go/internal/adapter/http"
	"github.com/diillson/training-center-go/internal/domain/service"
	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/internal/infra/middleware"
	"github.com/diillson/training-center-go/pkg/cache"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *database.Database
	Cache          cache.Cache
	Services       *service.Services
	Middleware     *middleware.Middleware
	AccountHandler *http.AccountHandler
	AuthHandler    *http.AuthHandler
	Health         *http.HealthChecker
	APIMetrics     *metrics.APIMetrics
	Registry       *prometheus.Registry

	limiterClient *redis.Client
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, db, logger)
}

// NewAppWithDatabase monta a aplicação sobre um banco já aberto (usado nos testes)
func NewAppWithDatabase(cfg *config.Config, db *database.Database, logger *zap.Logger) (*App, error) {
	return newApp(cfg, db, logger)
}

func newApp(cfg *config.Config, db *database.Database, logger *zap.Logger) (*App, error) {
	// Registry próprio: cada App registra suas métricas sem colidir com o global
	registry := prometheus.NewRegistry()
	var apiMetrics *metrics.APIMetrics
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		apiMetrics = metrics.NewAPIMetrics(registry)
	}

	appCache, err := cache.New(cfg.Cache, apiMetrics, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar cache: %w", err)
	}

	repos := database.NewRepositories(db.DB(), logger)
	uow := database.NewUnitOfWork(db.DB(), logger)

	services, err := service.NewServices(cfg, repos, uow, appCache, apiMetrics, logger)
	if err != nil {
		return nil, err
	}

	limiter, limiterClient, err := newLimiter(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Cache:          appCache,
		Services:       services,
		Middleware:     middleware.NewMiddleware(cfg, services.AuthService, limiter, apiMetrics, logger),
		AccountHandler: http.NewAccountHandler(services.AccountService, logger),
		AuthHandler:    http.NewAuthHandler(services.AuthService, logger),
		Health:         http.NewHealthChecker(db, appCache, logger),
		APIMetrics:     apiMetrics,
		Registry:       registry,
		limiterClient:  limiterClient,
	}, nil
}

// newLimiter escolhe o backend do rate limit; nil desliga o middleware
func newLimiter(cfg *config.Config, logger *zap.Logger) (ratelimit.Limiter, *redis.Client, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil, nil
	}

	switch cfg.RateLimit.Backend {
	case "redis":
		client, err := cache.NewRedisClientWithConfig(cache.RedisOptionsFromConfig(cfg.Cache.Redis), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao conectar ao Redis do rate limit: %w", err)
		}
		return ratelimit.NewRedisLimiter(client, logger), client, nil
	default:
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Period), nil, nil
	}
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(a.Middleware.Tracing())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.Metrics())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	router.Use(a.Middleware.IgnoreFavicon())

	if a.Config.Metrics.Enabled {
		router.GET(a.Config.Metrics.PrometheusPath, middleware.MetricsHandler(a.Registry))
		a.Logger.Info("Endpoint de métricas Prometheus registrado",
			zap.String("path", a.Config.Metrics.PrometheusPath))
	}

	router.GET("/health", a.Health.DetailedHealth)
	router.GET("/health/liveness", a.Health.LivenessCheck)
	router.GET("/health/readiness", a.Health.ReadinessCheck)

	api := router.Group("/api")

	// Rotas públicas
	api.POST("/register/training-center", a.Middleware.RateLimit("register"), a.AccountHandler.RegisterTrainingCenter)
	api.POST("/login", a.Middleware.RateLimit("login"), a.AuthHandler.Login)

	// Rotas com bearer token
	protected := api.Group("")
	protected.Use(a.Middleware.Authenticate)
	{
		protected.POST("/create/trainer", a.AccountHandler.CreateTrainer)
		protected.DELETE("/delete/trainer/:id", a.AccountHandler.DeleteTrainer)
		protected.POST("/update/trainer/:id", a.AccountHandler.UpdateTrainer)
		protected.POST("/trainers/list", a.AccountHandler.ListTrainers)
		protected.POST("/trainer/:id", a.AccountHandler.GetTrainer)
	}
}

// Close libera conexões de banco e Redis
func (a *App) Close() error {
	if a.limiterClient != nil {
		if err := a.limiterClient.Close(); err != nil {
			a.Logger.Warn("Erro ao fechar cliente Redis do rate limit", zap.Error(err))
		}
	}
	if rc, ok := a.Cache.(interface{ Close() error }); ok {
		if err := rc.Close(); err != nil {
			a.Logger.Warn("Erro ao fechar cache", zap.Error(err))
		}
	}
	return a.DB.Close()
}
