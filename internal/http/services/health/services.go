// Package health contiene los services de health check.
package health

import (
	"context"
	"time"

	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// Pinger es cualquier dependencia que se pueda chequear (store, cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contiene las dependencias del health service.
type Deps struct {
	Store   Pinger
	Cache   Pinger // opcional
	Version string
	Timeout time.Duration
}

// Result es el estado agregado de readiness.
type Result struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components"`
}

// Ready reporta si el servicio está en condiciones de atender.
func (r Result) Ready() bool { return r.Status == "ok" }

// HealthService chequea liveness y readiness.
type HealthService interface {
	Ready(ctx context.Context) Result
}

type healthService struct {
	deps Deps
}

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{deps: d}
}

func (s *healthService) Ready(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	res := Result{Status: "ok", Version: s.deps.Version, Components: map[string]string{}}
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed", logger.Component(name), logger.Err(err))
			res.Components[name] = "down"
			res.Status = "degraded"
			return
		}
		res.Components[name] = "ok"
	}
	check("store", s.deps.Store)
	check("cache", s.deps.Cache)
	return res
}

// Services agrupa todos los services del dominio health.
type Services struct {
	Health HealthService
}

// NewServices crea el agregador de services health.
func NewServices(d Deps) Services {
	return Services{
		Health: NewHealthService(d),
	}
}
