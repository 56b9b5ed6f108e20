// Package router arma el árbol de rutas (chi) del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/tokenjohn/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/tokenjohn/internal/http/controllers/oauth"
	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
	"github.com/dropDatabas3/tokenjohn/internal/observability/metrics"
	"github.com/dropDatabas3/tokenjohn/internal/rate"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	OAuth       *oauthctrl.Controllers
	Health      *healthctrl.Controllers
	RateLimiter rate.Limiter // nil deshabilita rate limiting

	// Metrics nil deshabilita /metrics y la instrumentación HTTP.
	Metrics     http.Handler
	MetricsPath string
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	if d.Metrics != nil {
		r.Use(metrics.WithMetrics)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterOAuthRoutes(r, OAuthRouterDeps{
		Controllers: d.OAuth,
		RateLimiter: d.RateLimiter,
	})
	if d.Health != nil {
		RegisterHealthRoutes(r, d.Health)
	}
	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, d.Metrics)
	}
	return r
}

// RegisterHealthRoutes registra /healthz y /readyz.
func RegisterHealthRoutes(r chi.Router, c *healthctrl.Controllers) {
	r.Get("/healthz", c.Health.Live)
	r.Get("/readyz", c.Health.Ready)
}
