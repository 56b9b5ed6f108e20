package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryClient implementa Client sobre go-cache.
type MemoryClient struct {
	c      *gocache.Cache
	prefix string
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory crea un cliente en memoria. defaultTTL <= 0 significa sin expiración.
func NewMemory(prefix string, defaultTTL time.Duration) *MemoryClient {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryClient{
		c:      gocache.New(defaultTTL, time.Minute),
		prefix: prefix,
	}
}

// Underlying expone el go-cache para el rate limiter en memoria.
func (m *MemoryClient) Underlying() *gocache.Cache { return m.c }

func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.c.Get(prefixed(m.prefix, key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	s, ok := v.(string)
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	return s, nil
}

func (m *MemoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(prefixed(m.prefix, key), value, ttl)
	return nil
}

func (m *MemoryClient) Delete(ctx context.Context, key string) error {
	m.c.Delete(prefixed(m.prefix, key))
	return nil
}

func (m *MemoryClient) Ping(ctx context.Context) error { return nil }

func (m *MemoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *MemoryClient) Stats(ctx context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
