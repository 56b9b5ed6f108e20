package middlewares

import (
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	"github.com/dropDatabas3/tokenjohn/internal/rate"
)

// RateLimitConfig configura WithRateLimit.
type RateLimitConfig struct {
	Limiter rate.Limiter
	// KeyFunc arma la key del bucket; default IPPathRateKey.
	KeyFunc func(r *http.Request) string
}

// WithRateLimit responde 429 con Retry-After cuando se excede el límite.
// Si el limiter falla (redis caído) el request pasa: el limiter no es
// autoritativo.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	keyFn := cfg.KeyFunc
	if keyFn == nil {
		keyFn = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		if cfg.Limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, allowing request", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(res.RetryAfter)))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retrySeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
