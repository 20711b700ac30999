package http

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger é implementado pelo banco e pelo cache
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency representa um componente do qual o sistema depende
type Dependency struct {
	Name     string
	Check    func(context.Context) error
	Critical bool // falha de um componente crítico derruba a prontidão
}

// HealthChecker implementa endpoints de health check
type HealthChecker struct {
	logger       *zap.Logger
	dependencies []Dependency
	timeout      time.Duration
}

func NewHealthChecker(db Pinger, cache Pinger, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		logger:  logger,
		timeout: 5 * time.Second,
		dependencies: []Dependency{
			{Name: "database", Check: db.Ping, Critical: true},
			{Name: "cache", Check: cache.Ping, Critical: false},
		},
	}
}

// LivenessCheck só confirma que o processo responde
func (h *HealthChecker) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessCheck retorna 503 se alguma dependência crítica estiver fora
func (h *HealthChecker) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	healthy, checks := h.runChecks(ctx, false)
	c.JSON(statusCode(healthy), gin.H{
		"status": statusText(healthy),
		"time":   time.Now(),
		"checks": checks,
	})
}

// DetailedHealth inclui erros das dependências e dados do runtime
func (h *HealthChecker) DetailedHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*h.timeout)
	defer cancel()

	healthy, checks := h.runChecks(ctx, true)
	c.JSON(statusCode(healthy), gin.H{
		"status":      statusText(healthy),
		"time":        time.Now(),
		"version":     os.Getenv("APP_VERSION"),
		"environment": getEnvironment(),
		"checks":      checks,
		"system":      getSystemInfo(),
	})
}

// runChecks verifica as dependências em paralelo
func (h *HealthChecker) runChecks(ctx context.Context, withErrors bool) (bool, map[string]gin.H) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		checks  = make(map[string]gin.H, len(h.dependencies))
	)

	for _, dep := range h.dependencies {
		wg.Add(1)
		go func(d Dependency) {
			defer wg.Done()

			start := time.Now()
			err := d.Check(ctx)
			result := gin.H{
				"status":   statusText(err == nil),
				"time":     time.Since(start).String(),
				"critical": d.Critical,
			}
			if err != nil {
				h.logger.Warn("health check falhou", zap.String("dependency", d.Name), zap.Error(err))
				if withErrors {
					result["error"] = err.Error()
				}
			}

			mu.Lock()
			defer mu.Unlock()
			checks[d.Name] = result
			if err != nil && d.Critical {
				healthy = false
			}
		}(dep)
	}

	wg.Wait()
	return healthy, checks
}

func statusText(ok bool) string {
	if ok {
		return "UP"
	}
	return "DOWN"
}

func statusCode(ok bool) int {
	if ok {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}

func getSystemInfo() gin.H {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return gin.H{
		"go_version":    runtime.Version(),
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc_mb": float64(m.Alloc) / 1024 / 1024,
			"sys_mb":   float64(m.Sys) / 1024 / 1024,
			"num_gc":   m.NumGC,
		},
	}
}
