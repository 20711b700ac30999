package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config representa a configuração completa do serviço
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
}

// ServerConfig contém configurações do servidor HTTP
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	TLS             bool
	CertFile        string
	KeyFile         string
	Domains         []string
	AllowedOrigins  []string
}

// DatabaseConfig contém configurações do banco de dados
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	MigrationDir    string
	SkipMigrations  bool
	AutoMigrate     bool
}

// RedisOptions contém configurações específicas para Redis
type RedisOptions struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
	MaxConnAge   time.Duration
}

// BreakerConfig controla o circuit breaker que protege o cache remoto
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	ResetTimeout     time.Duration
	HalfOpenMaxCalls int
}

// CacheConfig contém configurações do cache de leitura de treinadores
type CacheConfig struct {
	Enabled  bool
	Type     string // redis, memory
	TTL      time.Duration
	MaxItems int // apenas para cache em memória
	Redis    RedisOptions
	Breaker  BreakerConfig
}

// AuthConfig contém configurações de autenticação
type AuthConfig struct {
	Enabled         bool
	JWTSecret       string
	TokenExpiration time.Duration
	BcryptCost      int
}

// RateLimitConfig limita as rotas públicas (registro e login)
type RateLimitConfig struct {
	Enabled bool
	Backend string // memory, redis
	Limit   int
	Period  time.Duration
	Burst   float64
}

// MetricsConfig contém configurações de métricas
type MetricsConfig struct {
	Enabled        bool
	PrometheusPath string
}

// LoggingConfig contém configurações de logging
type LoggingConfig struct {
	Level      string
	Format     string // json, console
	OutputPath string // stdout, file path
	ErrorPath  string
	Production bool
}

// TracingConfig contém configurações de rastreamento
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

// Addr retorna o endereço de escuta do servidor
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig carrega a configuração de diversas fontes (.env, arquivos, env, defaults)
func LoadConfig(configPath string) (*Config, error) {
	// .env é opcional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("erro ao ler arquivo .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/trainingcenter")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	// Variáveis de ambiente com prefixo TC_ (ex.: TC_DATABASE_DSN)
	v.SetEnvPrefix("TC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("erro ao mapear configuração: %w", err)
	}

	// JWT_SECRET_KEY tem precedência sobre auth.jwtSecret
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default retorna a configuração padrão, sem arquivo nem ambiente
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// os defaults são todos tipos conhecidos, o decode não falha
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	// Servidor
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "5s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "30s")
	v.SetDefault("server.maxHeaderBytes", 1<<20) // 1 MB
	v.SetDefault("server.tls", false)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	// Banco de dados
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./trainingcenter.db?_pragma=foreign_keys(1)")
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.connMaxLifetime", "1h")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.slowThreshold", "200ms")
	v.SetDefault("database.migrationDir", "./migrations")
	v.SetDefault("database.skipMigrations", false)
	v.SetDefault("database.autoMigrate", true)

	// Redis
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.poolSize", 10)
	v.SetDefault("cache.redis.minIdleConns", 5)
	v.SetDefault("cache.redis.maxRetries", 3)
	v.SetDefault("cache.redis.readTimeout", "3s")
	v.SetDefault("cache.redis.writeTimeout", "3s")
	v.SetDefault("cache.redis.dialTimeout", "5s")
	v.SetDefault("cache.redis.poolTimeout", "4s")
	v.SetDefault("cache.redis.idleTimeout", "5m")
	v.SetDefault("cache.redis.maxConnAge", "30m")

	// Cache
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "1m")
	v.SetDefault("cache.maxItems", 10000)
	v.SetDefault("cache.breaker.enabled", true)
	v.SetDefault("cache.breaker.failureThreshold", 5)
	v.SetDefault("cache.breaker.resetTimeout", "30s")
	v.SetDefault("cache.breaker.halfOpenMaxCalls", 1)

	// Autenticação
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.jwtSecret", "") // registra a chave para TC_AUTH_JWTSECRET
	v.SetDefault("auth.tokenExpiration", "24h")
	v.SetDefault("auth.bcryptCost", 10)

	// Rate limit
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.limit", 20)
	v.SetDefault("ratelimit.period", "1m")
	v.SetDefault("ratelimit.burst", 1.5)

	// Métricas
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prometheusPath", "/metrics")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
	v.SetDefault("logging.errorPath", "stderr")
	v.SetDefault("logging.production", true)

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.samplingRatio", 0.1) // 10% das requisições
	v.SetDefault("tracing.serviceName", "training-center")
}

func validateConfig(config *Config) error {
	if config.Auth.Enabled && len(config.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth habilitado, mas auth.jwtSecret tem menos de 32 bytes")
	}

	// TLS exige certificado em arquivo ou domínios para autocert
	if config.Server.TLS {
		hasFiles := config.Server.CertFile != "" && config.Server.KeyFile != ""
		if !hasFiles && len(config.Server.Domains) == 0 {
			return fmt.Errorf("TLS habilitado, mas CertFile/KeyFile ou Domains não estão definidos")
		}
	}

	validDrivers := map[string]bool{"sqlite": true, "mysql": true, "postgres": true}
	if !validDrivers[config.Database.Driver] {
		return fmt.Errorf("driver de banco de dados inválido: %s", config.Database.Driver)
	}

	if config.Cache.Enabled {
		validTypes := map[string]bool{"memory": true, "redis": true}
		if !validTypes[config.Cache.Type] {
			return fmt.Errorf("tipo de cache inválido: %s", config.Cache.Type)
		}

		if config.Cache.Type == "redis" && config.Cache.Redis.Address == "" {
			return fmt.Errorf("tipo de cache redis requer um endereço")
		}
	}

	if config.RateLimit.Enabled {
		validBackends := map[string]bool{"memory": true, "redis": true}
		if !validBackends[config.RateLimit.Backend] {
			return fmt.Errorf("backend de rate limit inválido: %s", config.RateLimit.Backend)
		}
		if config.RateLimit.Limit <= 0 || config.RateLimit.Period <= 0 {
			return fmt.Errorf("rate limit requer limit e period positivos")
		}
	}

	return nil
}
