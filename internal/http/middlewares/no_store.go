package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
)

// WithNoStore marca la respuesta como no cacheable (RFC 6749 §5.1), incluso
// cuando la escribe otro middleware (429, panic).
func WithNoStore() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httperrors.SetNoStore(w)
			next.ServeHTTP(w, r)
		})
	}
}

// WithSecurityHeaders agrega headers básicos para respuestas JSON.
func WithSecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
