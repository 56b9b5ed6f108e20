package middlewares

import (
	"net/http"
	"runtime/debug"

	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// WithRecover convierte un panic en un 500 y lo loguea con stack.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.From(r.Context()).Error("panic recovered",
					logger.Any("panic", rv),
					logger.String("stack", string(debug.Stack())),
				)
				httperrors.WriteError(w, httperrors.ErrInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
