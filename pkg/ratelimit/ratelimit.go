package ratelimit

import (
	"context"
	"errors"
	"time"
)

// LimitConfig configura o comportamento do limitador
type LimitConfig struct {
	Key         string        // Chave única para identificar o limite
	Limit       int           // Número máximo de requisições
	Period      time.Duration // Janela fixa de contagem
	BurstFactor float64       // Fator para permitir rajadas (1.0 = sem rajada)
}

// Result é o estado da janela após contar a requisição
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter conta requisições por chave em janelas fixas
type Limiter interface {
	Allow(ctx context.Context, config LimitConfig) (Result, error)
}

func (c LimitConfig) validate() (LimitConfig, error) {
	if c.Limit <= 0 {
		return c, errors.New("limite deve ser maior que zero")
	}
	if c.Period < time.Second {
		return c, errors.New("período deve ser de pelo menos um segundo")
	}
	if c.BurstFactor <= 0 {
		c.BurstFactor = 1.0
	}
	return c, nil
}

func (c LimitConfig) burstLimit() int {
	return int(float64(c.Limit) * c.BurstFactor)
}

// window devolve o início da janela atual e o tempo até o reset
func (c LimitConfig) window(now time.Time) (int64, time.Duration) {
	periodSeconds := int64(c.Period.Seconds())
	unix := now.Unix()
	start := unix - (unix % periodSeconds)
	return start, time.Duration(start+periodSeconds-unix) * time.Second
}

func result(c LimitConfig, count int, resetAfter time.Duration) Result {
	remaining := c.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= c.burstLimit(),
		Limit:      c.Limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}
}
