// Package metrics expone las métricas Prometheus del servicio: HTTP, emisión
// de tokens, introspección y el pool de Postgres.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// OAuth metrics
	tokensIssuedTotal   *prometheus.CounterVec
	tokenErrorsTotal    *prometheus.CounterVec
	introspectionsTotal *prometheus.CounterVec
)

// Config agrupa dependencias necesarias para exponer /metrics.
type Config struct {
	Registry prometheus.Registerer
	// Pool es opcional (driver memory no tiene pool).
	Pool func() *pgxpool.Pool
}

// Register inicializa las métricas y devuelve el handler para /metrics.
func Register(cfg Config) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		tokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_tokens_issued_total",
			Help: "Tokens emitidos por grant type y tipo (access|refresh)",
		}, []string{"grant_type", "kind"})

		tokenErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_token_errors_total",
			Help: "Errores del token endpoint por código OAuth2",
		}, []string{"error"})

		introspectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_introspections_total",
			Help: "Introspecciones por resultado",
		}, []string{"active"})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			tokensIssuedTotal, tokenErrorsTotal, introspectionsTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	if cfg.Pool != nil {
		if err := registerCollector(registry, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	return promhttp.Handler(), nil
}

// WithMetrics instrumenta requests HTTP (contadores, latencia, inflight).
// El label path es el patrón de ruta de chi, para acotar cardinalidad.
func WithMetrics(next http.Handler) http.Handler {
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		// el patrón solo se conoce después del routing; inflight usa el path crudo acotado
		inflightPath := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, inflightPath).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, inflightPath).Dec()

			pathLabel := routePattern(r)
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// TokenIssued cuenta un token emitido. No-op si Register no se llamó.
func TokenIssued(grantType, kind string) {
	if tokensIssuedTotal != nil {
		tokensIssuedTotal.WithLabelValues(grantType, kind).Inc()
	}
}

// TokenError cuenta un error del token endpoint.
func TokenError(code string) {
	if tokenErrorsTotal != nil {
		tokenErrorsTotal.WithLabelValues(code).Inc()
	}
}

// Introspection cuenta una introspección.
func Introspection(active bool) {
	if introspectionsTotal != nil {
		introspectionsTotal.WithLabelValues(strconv.FormatBool(active)).Inc()
	}
}

// registerCollector registra el collector, ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// normalizePath limita los paths conocidos; el resto cae en "other".
func normalizePath(p string) string {
	switch p {
	case "/oauth/token", "/oauth/introspect", "/oauth/authorize", "/healthz", "/readyz", "/metrics":
		return p
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// poolCollector expone gauges del pgxpool.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pgxpool_acquired_conns", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pgxpool_idle_conns", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pgxpool_total_conns", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	pool := c.pool()
	if pool == nil {
		return
	}
	stat := pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
