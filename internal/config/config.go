package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RefreshNeverExpires es el valor de refresh_token_ttl que deja al refresh
// token sin expires_at.
const RefreshNeverExpires int64 = -1

// MaxTTLSeconds es el TTL más grande que entra en un time.Duration.
const MaxTTLSeconds = math.MaxInt64 / int64(time.Second)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level      string `yaml:"level"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"log"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns       int           `yaml:"max_conns"`
			MinConns       int           `yaml:"min_conns"`
			AcquireTimeout time.Duration `yaml:"acquire_timeout"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind string `yaml:"kind"`
		// LookupTTL: cuánto viven en cache los clients y grant types.
		LookupTTL time.Duration `yaml:"lookup_ttl"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	OAuth OAuth `yaml:"oauth"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// OAuth agrupa los TTL de tokens, en segundos. Ambos son obligatorios.
type OAuth struct {
	AccessTokenTTL  *int64 `yaml:"access_token_ttl"`
	RefreshTokenTTL *int64 `yaml:"refresh_token_ttl"`
}

var (
	ErrAccessTTLRequired  = errors.New("config: oauth.access_token_ttl is required")
	ErrRefreshTTLRequired = errors.New("config: oauth.refresh_token_ttl is required")
	ErrInvalidAccessTTL   = errors.New("config: oauth.access_token_ttl must be between 0 and 9223372036")
	ErrInvalidRefreshTTL  = errors.New("config: oauth.refresh_token_ttl must be between 0 and 9223372036, or -1")
)

// Validate rechaza TTLs ausentes, negativos (salvo refresh == -1) o mayores
// que MaxTTLSeconds.
func (o OAuth) Validate() error {
	if o.AccessTokenTTL == nil {
		return ErrAccessTTLRequired
	}
	if o.RefreshTokenTTL == nil {
		return ErrRefreshTTLRequired
	}
	if a := *o.AccessTokenTTL; a < 0 || a > MaxTTLSeconds {
		return fmt.Errorf("%w (got %d)", ErrInvalidAccessTTL, *o.AccessTokenTTL)
	}
	if r := *o.RefreshTokenTTL; (r < 0 && r != RefreshNeverExpires) || r > MaxTTLSeconds {
		return fmt.Errorf("%w (got %d)", ErrInvalidRefreshTTL, r)
	}
	return nil
}

// Seconds devuelve (access, refresh). Llamar solo después de Validate.
func (o OAuth) Seconds() (int64, int64) {
	var a, r int64
	if o.AccessTokenTTL != nil {
		a = *o.AccessTokenTTL
	}
	if o.RefreshTokenTTL != nil {
		r = *o.RefreshTokenTTL
	}
	return a, r
}

// Load lee el YAML en path (opcional), aplica defaults, pisa con env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "tokenjohn"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = 10
	}
	if c.Storage.Postgres.MinConns == 0 {
		c.Storage.Postgres.MinConns = 2
	}
	if c.Storage.Postgres.AcquireTimeout == 0 {
		c.Storage.Postgres.AcquireTimeout = 5 * time.Second
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.LookupTTL == 0 {
		c.Cache.LookupTTL = time.Minute
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "tokenjohn"
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt64(key string) (int64, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return i, true, nil
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, true, nil
}

// applyEnvOverrides pisa el YAML con variables de entorno. Los enteros y
// duraciones mal formados son error: un TTL ilegible no puede caer a default.
func (c *Config) applyEnvOverrides() error {
	str := func(key string, dst *string) {
		if v, ok := getEnvStr(key); ok {
			*dst = v
		}
	}
	str("APP_ENV", &c.App.Env)
	c.App.Env = strings.ToLower(c.App.Env)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_TIME_FORMAT", &c.Log.TimeFormat)
	str("SERVER_ADDR", &c.Server.Addr)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("DATABASE_URL", &c.Storage.DSN)
	str("STORAGE_DSN", &c.Storage.DSN)
	str("CACHE_KIND", &c.Cache.Kind)
	str("REDIS_ADDR", &c.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	str("REDIS_PREFIX", &c.Cache.Redis.Prefix)
	str("METRICS_PATH", &c.Metrics.Path)

	durs := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &c.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout},
		{"DB_ACQUIRE_TIMEOUT", &c.Storage.Postgres.AcquireTimeout},
		{"CACHE_LOOKUP_TTL", &c.Cache.LookupTTL},
		{"RATE_WINDOW", &c.Rate.Window},
	}
	for _, d := range durs {
		v, ok, err := getEnvDur(d.key)
		if err != nil {
			return err
		}
		if ok {
			*d.dst = v
		}
	}

	ints := []struct {
		key string
		set func(int64)
	}{
		{"DB_POOL_SIZE", func(v int64) { c.Storage.Postgres.MaxConns = int(v) }},
		{"REDIS_DB", func(v int64) { c.Cache.Redis.DB = int(v) }},
		{"RATE_MAX_REQUESTS", func(v int64) { c.Rate.MaxRequests = int(v) }},
		{"ACCESS_TOKEN_TTL", func(v int64) { c.OAuth.AccessTokenTTL = &v }},
		{"REFRESH_TOKEN_TTL", func(v int64) { c.OAuth.RefreshTokenTTL = &v }},
	}
	for _, i := range ints {
		v, ok, err := getEnvInt64(i.key)
		if err != nil {
			return err
		}
		if ok {
			i.set(v)
		}
	}

	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	return nil
}

// Validate verifica los valores críticos antes de levantar el server.
func (c *Config) Validate() error {
	if err := c.OAuth.Validate(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("config: storage.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return errors.New("config: cache.redis.addr is required when cache.kind=redis")
		}
	default:
		return fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind)
	}
	if c.Storage.Postgres.MinConns > c.Storage.Postgres.MaxConns {
		return fmt.Errorf("config: storage.postgres.min_conns (%d) > max_conns (%d)",
			c.Storage.Postgres.MinConns, c.Storage.Postgres.MaxConns)
	}
	if c.Rate.Enabled && (c.Rate.MaxRequests <= 0 || c.Rate.Window <= 0) {
		return errors.New("config: rate.max_requests and rate.window must be positive")
	}
	if c.Cache.LookupTTL < 0 {
		return errors.New("config: cache.lookup_ttl must be >= 0")
	}
	return nil
}
