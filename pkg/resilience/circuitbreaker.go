package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diillson/training-center-go/internal/infra/metrics"
	"go.uber.org/zap"
)

// ErrCircuitOpen é retornado sem chamar a dependência enquanto o circuito está aberto
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State é o estado do circuito
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config espelha config.BreakerConfig
type Config struct {
	Name             string
	FailureThreshold int           // falhas seguidas que abrem o circuito
	Window           time.Duration // janela em que as falhas são contadas
	ResetTimeout     time.Duration // tempo aberto antes das chamadas de teste
	HalfOpenMaxCalls int           // chamadas de teste simultâneas
}

// CircuitBreaker protege uma dependência remota (o Redis do cache de leitura)
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	windowStart time.Time
	openUntil   time.Time
	trials      int

	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewCircuitBreaker aplica os padrões: 5 falhas em 1 minuto, 30s aberto, 1 chamada de teste
func NewCircuitBreaker(cfg Config, logger *zap.Logger, m *metrics.APIMetrics) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &CircuitBreaker{
		cfg:         cfg,
		now:         time.Now,
		state:       StateClosed,
		windowStart: time.Now(),
		logger:      logger.With(zap.String("breaker", cfg.Name)),
		metrics:     m,
	}
}

// Do chama fn se o circuito permitir. Cancelamento do contexto de quem
// chamou não conta como falha da dependência.
func (cb *CircuitBreaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if !cb.acquire() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	if errors.Is(err, context.Canceled) {
		cb.release()
		return err
	}

	cb.record(err == nil)
	return err
}

// State devolve o estado atual
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset fecha o circuito manualmente
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.close(cb.now())
}

func (cb *CircuitBreaker) acquire() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	switch cb.state {
	case StateClosed:
		if now.Sub(cb.windowStart) > cb.cfg.Window {
			cb.failures = 0
			cb.windowStart = now
		}
		return true
	case StateOpen:
		if now.Before(cb.openUntil) {
			return false
		}
		cb.state = StateHalfOpen
		cb.trials = 0
		cb.logger.Info("circuit breaker meio-aberto")
		fallthrough
	case StateHalfOpen:
		if cb.trials >= cb.cfg.HalfOpenMaxCalls {
			return false
		}
		cb.trials++
		return true
	}
	return false
}

// release devolve a vaga de teste de uma chamada que não teve resultado
func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateHalfOpen && cb.trials > 0 {
		cb.trials--
	}
}

func (cb *CircuitBreaker) record(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	switch cb.state {
	case StateClosed:
		if ok {
			cb.failures = 0
			return
		}
		cb.failures++
		cb.logger.Debug("falha registrada",
			zap.Int("failures", cb.failures),
			zap.Int("threshold", cb.cfg.FailureThreshold))
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.open(now)
		}
	case StateHalfOpen:
		if ok {
			cb.close(now)
		} else {
			cb.open(now)
		}
	}
}

func (cb *CircuitBreaker) open(now time.Time) {
	cb.state = StateOpen
	cb.openUntil = now.Add(cb.cfg.ResetTimeout)
	cb.metrics.CircuitBreakerStateChanged(cb.cfg.Name, true)
	cb.logger.Warn("circuit breaker aberto", zap.Time("retry_at", cb.openUntil))
}

func (cb *CircuitBreaker) close(now time.Time) {
	wasOpen := cb.state != StateClosed
	cb.state = StateClosed
	cb.failures = 0
	cb.trials = 0
	cb.windowStart = now
	cb.metrics.CircuitBreakerStateChanged(cb.cfg.Name, false)
	if wasOpen {
		cb.logger.Info("circuit breaker fechado")
	}
}
