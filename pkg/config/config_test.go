package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, 20, cfg.RateLimit.Limit)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	t.Run("file values", func(t *testing.T) {
		dir := writeConfig(t, `
server:
  port: 9090
auth:
  jwtSecret: `+validSecret+`
cache:
  ttl: 5m
`)
		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, validSecret, cfg.Auth.JWTSecret)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := writeConfig(t, "auth:\n  jwtSecret: "+validSecret+"\n")
		t.Setenv("TC_SERVER_PORT", "7070")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("JWT_SECRET_KEY takes precedence", func(t *testing.T) {
		dir := writeConfig(t, "auth:\n  jwtSecret: short\n")
		t.Setenv("JWT_SECRET_KEY", validSecret+"-env")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, validSecret+"-env", cfg.Auth.JWTSecret)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		dir := writeConfig(t, "auth:\n  jwtSecret: short\n")

		_, err := LoadConfig(dir)
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Auth.JWTSecret = validSecret
		return cfg
	}

	require.NoError(t, validateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Type = "redis"; c.Cache.Redis.Address = "" }},
		{"tls without certificates", func(c *Config) { c.Server.TLS = true }},
		{"unknown rate limit backend", func(c *Config) { c.RateLimit.Backend = "etcd" }},
		{"non-positive limit", func(c *Config) { c.RateLimit.Limit = 0 }},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}

	t.Run("auth disabled accepts an empty secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.Enabled = false
		cfg.Auth.JWTSecret = ""
		assert.NoError(t, validateConfig(cfg))
	})

	t.Run("tls with domains", func(t *testing.T) {
		cfg := valid()
		cfg.Server.TLS = true
		cfg.Server.Domains = []string{"api.example.com"}
		assert.NoError(t, validateConfig(cfg))
	})
}
