// Package health contiene los controllers de health check.
package health

import (
	"encoding/json"
	"net/http"

	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/health"
)

// Controllers agrupa todos los controllers del dominio health.
type Controllers struct {
	Health *HealthController
}

// NewControllers crea el agregador de controllers health.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Health: NewHealthController(s.Health),
	}
}

// HealthController expone /healthz y /readyz.
type HealthController struct {
	service svc.HealthService
}

func NewHealthController(s svc.HealthService) *HealthController {
	return &HealthController{service: s}
}

// Live responde 200 mientras el proceso esté vivo.
func (c *HealthController) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready responde 503 si alguna dependencia no contesta.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	res := c.service.Ready(r.Context())
	status := http.StatusOK
	if !res.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
