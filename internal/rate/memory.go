package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es la variante in-process (single instance) sobre go-cache.
type MemoryLimiter struct {
	c      *gocache.Cache
	prefix string
	max    int64
	window time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// NewMemoryLimiter usa c si no es nil (permite compartir el cache del proceso).
func NewMemoryLimiter(c *gocache.Cache, prefix string, max int, window time.Duration) *MemoryLimiter {
	if c == nil {
		c = gocache.New(window, 2*window)
	}
	if prefix == "" {
		prefix = "rl:"
	}
	return &MemoryLimiter{c: c, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.window)
	k := windowKey(l.prefix, key, winStart)

	// Add + Increment no es atómico en go-cache; serializamos acá.
	l.mu.Lock()
	var hits int64 = 1
	if err := l.c.Add(k, int64(1), l.window); err != nil {
		n, ierr := l.c.IncrementInt64(k, 1)
		if ierr != nil {
			// expiró entre Add e Increment
			l.c.Set(k, int64(1), l.window)
			n = 1
		}
		hits = n
	}
	l.mu.Unlock()

	return result(hits, l.max, winStart.Add(l.window).Sub(now)), nil
}
