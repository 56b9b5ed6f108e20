// Package store provee el registry de adapters de persistencia y el
// decorator de cache para lookups de referencia.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
)

// Adapter es un driver de persistencia capaz de abrir una conexión.
type Adapter interface {
	// Name retorna el nombre del driver ("postgres", "memory").
	Name() string

	// Connect abre la conexión y verifica que responda.
	Connect(ctx context.Context, cfg AdapterConfig) (DataAccessLayer, error)
}

// DataAccessLayer es la conexión activa con acceso a los repositorios.
type DataAccessLayer interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Clients() repository.ClientRepository
	GrantTypes() repository.GrantTypeRepository
	AccessTokens() repository.AccessTokenRepository
	RefreshTokens() repository.RefreshTokenRepository
}

// AdapterConfig configuración para conectar un driver.
type AdapterConfig struct {
	DSN string

	// Pool settings (solo drivers SQL)
	MaxConns       int
	MinConns       int
	AcquireTimeout time.Duration
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter. Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("store: adapter %q already registered", name))
	}
	adapters[name] = a
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open conecta el driver pedido.
func Open(ctx context.Context, driver string, cfg AdapterConfig) (DataAccessLayer, error) {
	registryMu.RLock()
	a, ok := adapters[driver]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (registered: %v)", driver, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
