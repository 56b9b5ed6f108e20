package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/tokenjohn/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/tokenjohn/internal/http/middlewares"
	"github.com/dropDatabas3/tokenjohn/internal/rate"
)

// OAuthRouterDeps contiene las dependencias para el router OAuth.
type OAuthRouterDeps struct {
	Controllers *ctrl.Controllers
	RateLimiter rate.Limiter // Opcional
}

// RegisterOAuthRoutes registra las rutas OAuth2. Se registran para todos
// los métodos: cada controller responde 405 con Allow: POST.
func RegisterOAuthRoutes(r chi.Router, deps OAuthRouterDeps) {
	c := deps.Controllers

	// POST /oauth/token - Token endpoint (RFC 6749)
	r.Handle("/oauth/token", oauthHandler(deps.RateLimiter, http.HandlerFunc(c.Token.Token)))

	// POST /oauth/introspect - Token introspection (RFC 7662)
	r.Handle("/oauth/introspect", oauthHandler(deps.RateLimiter, http.HandlerFunc(c.Introspect.Introspect)))

	// GET /oauth/authorize - placeholder, siempre 501
	r.Handle("/oauth/authorize", oauthHandler(nil, http.HandlerFunc(c.Authorize.Authorize)))
}

// oauthHandler crea el middleware chain para endpoints OAuth.
func oauthHandler(limiter rate.Limiter, handler http.Handler) http.Handler {
	chain := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
	}

	if limiter != nil {
		chain = append(chain, mw.WithRateLimit(mw.RateLimitConfig{
			Limiter: limiter,
			KeyFunc: mw.IPPathClientRateKey,
		}))
	}

	// Logging al final
	chain = append(chain, mw.WithLogging())

	return mw.Chain(handler, chain...)
}
