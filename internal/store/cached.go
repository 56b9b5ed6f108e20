package store

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/tokenjohn/internal/cache"
	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// cachedDAL decora un DataAccessLayer cacheando los lookups de referencia
// (clients por identifier y grant types por nombre). Los tokens pasan
// directo al store: expiración y ownership se evalúan siempre contra la base.
type cachedDAL struct {
	DataAccessLayer

	cache cache.Client
	ttl   time.Duration

	// sf colapsa misses concurrentes de la misma key en una sola query
	sf singleflight.Group
}

// WithCache envuelve dal con c. Los resultados negativos no se cachean, así
// un client recién provisto es visible de inmediato.
func WithCache(dal DataAccessLayer, c cache.Client, ttl time.Duration) DataAccessLayer {
	if c == nil {
		return dal
	}
	return &cachedDAL{DataAccessLayer: dal, cache: c, ttl: ttl}
}

func (d *cachedDAL) Clients() repository.ClientRepository {
	return &cachedClients{d: d, next: d.DataAccessLayer.Clients()}
}

func (d *cachedDAL) GrantTypes() repository.GrantTypeRepository {
	return &cachedGrants{d: d, next: d.DataAccessLayer.GrantTypes()}
}

func clientKey(identifier string) string { return "client:" + identifier }
func grantKey(name string) string        { return "grant_type:" + name }

// lookup resuelve key desde cache o, en miss, con load (deduplicado por singleflight).
func lookup[T any](ctx context.Context, d *cachedDAL, key string, load func(context.Context) (*T, error)) (*T, error) {
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("cache"), logger.Key(key))

	raw, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal([]byte(raw), &v); jerr == nil {
			return &v, nil
		}
		log.Debug("cached entry corrupted, reloading")
	case !cache.IsNotFound(err):
		log.Debug("cache get failed, falling back to store", logger.Err(err))
	}

	// el load es compartido: no puede heredar la cancelación de quien llegó
	// primero, cada caller deja de esperar con su propio ctx.
	shared := context.WithoutCancel(ctx)
	ch := d.sf.DoChan(key, func() (any, error) {
		v, err := load(shared)
		if err != nil {
			return nil, err
		}
		if b, merr := json.Marshal(v); merr == nil {
			if serr := d.cache.Set(shared, key, string(b), d.ttl); serr != nil {
				log.Debug("cache set failed", logger.Err(serr))
			}
		}
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*T)
		return &out, nil
	}
}

type cachedClients struct {
	d    *cachedDAL
	next repository.ClientRepository
}

func (r *cachedClients) GetByIdentifier(ctx context.Context, identifier string) (*repository.Client, error) {
	return lookup(ctx, r.d, clientKey(identifier), func(ctx context.Context) (*repository.Client, error) {
		return r.next.GetByIdentifier(ctx, identifier)
	})
}

func (r *cachedClients) Create(ctx context.Context, in repository.CreateClientInput) (*repository.Client, error) {
	c, err := r.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	_ = r.d.cache.Delete(ctx, clientKey(in.Identifier))
	return c, nil
}

type cachedGrants struct {
	d    *cachedDAL
	next repository.GrantTypeRepository
}

func (r *cachedGrants) GetByName(ctx context.Context, name string) (*repository.GrantType, error) {
	return lookup(ctx, r.d, grantKey(name), func(ctx context.Context) (*repository.GrantType, error) {
		return r.next.GetByName(ctx, name)
	})
}
