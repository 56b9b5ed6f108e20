// Package app arma el contexto de aplicación: se construye una vez desde
// config.Config y se pasa explícitamente a router y services.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tokenjohn/internal/cache"
	"github.com/dropDatabas3/tokenjohn/internal/config"
	healthctrl "github.com/dropDatabas3/tokenjohn/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/tokenjohn/internal/http/controllers/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/http/router"
	healthsvc "github.com/dropDatabas3/tokenjohn/internal/http/services/health"
	oauthsvc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	"github.com/dropDatabas3/tokenjohn/internal/observability/metrics"
	"github.com/dropDatabas3/tokenjohn/internal/rate"
	"github.com/dropDatabas3/tokenjohn/internal/store"

	// drivers registrados en init()
	_ "github.com/dropDatabas3/tokenjohn/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/tokenjohn/internal/store/adapters/pg"
)

// App es el contenedor de dependencias del proceso.
type App struct {
	Config *config.Config

	// Store es el DAL con cache de lookups; base es la conexión cruda.
	Store store.DataAccessLayer
	base  store.DataAccessLayer

	Cache   cache.Client
	Limiter rate.Limiter
	OAuth   oauthsvc.Services
	Handler http.Handler
}

// Options permite inyectar piezas ya construidas (tests).
type Options struct {
	// Store reemplaza la conexión que se abriría según storage.driver.
	Store store.DataAccessLayer
	// Now y NewToken fijan reloj y generador de tokens.
	Now      func() time.Time
	NewToken func() string
}

// New construye el App. Si algo falla a mitad de camino libera lo ya abierto.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg *config.Config, opts Options) (a *App, err error) {
	log := logger.L().With(logger.Component("app"))

	accessTTL, refreshTTL := cfg.OAuth.Seconds()
	ttl, err := oauthsvc.NewTTLPolicy(accessTTL, refreshTTL)
	if err != nil {
		return nil, err
	}

	a = &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()

	// Store
	a.base = opts.Store
	if a.base == nil {
		a.base, err = store.Open(ctx, cfg.Storage.Driver, store.AdapterConfig{
			DSN:            cfg.Storage.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MinConns:       cfg.Storage.Postgres.MinConns,
			AcquireTimeout: cfg.Storage.Postgres.AcquireTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}
	log.Info("store ready", logger.String("driver", a.base.Name()))

	// Cache
	a.Cache, err = cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.Cache.LookupTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.Store = store.WithCache(a.base, a.Cache, cfg.Cache.LookupTTL)

	// Rate limiter
	if cfg.Rate.Enabled {
		a.Limiter = newLimiter(a.Cache, cfg)
	}

	// Services
	a.OAuth = oauthsvc.NewServices(oauthsvc.Deps{
		DAL:      a.Store,
		TTL:      ttl,
		Now:      opts.Now,
		NewToken: opts.NewToken,
	})
	health := healthsvc.NewServices(healthsvc.Deps{
		Store:   a.base,
		Cache:   a.Cache,
		Version: cfg.App.Version,
	})

	// Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler, err = metrics.Register(metrics.Config{Pool: poolOf(a.base)})
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	a.Handler = router.New(router.Deps{
		OAuth:       oauthctrl.NewControllers(a.OAuth),
		Health:      healthctrl.NewControllers(health),
		RateLimiter: a.Limiter,
		Metrics:     metricsHandler,
		MetricsPath: cfg.Metrics.Path,
	})
	return a, nil
}

// newLimiter usa el mismo backend que el cache: redis compartido entre
// réplicas o go-cache en proceso.
func newLimiter(c cache.Client, cfg *config.Config) rate.Limiter {
	switch cc := c.(type) {
	case *cache.RedisClient:
		return rate.NewRedisLimiter(cc.Raw(), cfg.Cache.Redis.Prefix+":rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
	case *cache.MemoryClient:
		return rate.NewMemoryLimiter(cc.Underlying(), "rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
	default:
		return rate.NewMemoryLimiter(nil, "rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
	}
}

// poolOf devuelve el pgxpool si el driver lo tiene (para el collector).
func poolOf(dal store.DataAccessLayer) func() *pgxpool.Pool {
	p, ok := dal.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil
	}
	return p.Pool
}

// Close libera cache y store.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.base != nil {
		errs = append(errs, a.base.Close())
	}
	return errors.Join(errs...)
}
