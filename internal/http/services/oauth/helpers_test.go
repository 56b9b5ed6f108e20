package oauth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/security/password"
	"github.com/dropDatabas3/tokenjohn/internal/store/adapters/memory"
)

const (
	testAccessTTL  int64 = 3600
	testRefreshTTL int64 = 86400
)

// fixture arma los services sobre el store en memoria con un reloj controlable.
type fixture struct {
	store *memory.Store
	svc   Services

	mu  sync.Mutex
	now time.Time
}

func newFixture(t *testing.T, accessTTL, refreshTTL int64) *fixture {
	t.Helper()
	ttl, err := NewTTLPolicy(accessTTL, refreshTTL)
	require.NoError(t, err)

	f := &fixture{
		store: memory.New(),
		now:   time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	f.svc = NewServices(Deps{
		DAL: f.store,
		TTL: ttl,
		Now: f.clock,
	})
	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// addClient da de alta un client con bcrypt cost mínimo para que los tests sean rápidos.
func (f *fixture) addClient(t *testing.T, identifier, secret, responseType string) *repository.Client {
	t.Helper()
	h, err := password.HashBcrypt(secret, 4)
	require.NoError(t, err)
	c, err := f.store.Clients().Create(testContext(t), repository.CreateClientInput{
		Identifier:   identifier,
		SecretHash:   h,
		ResponseType: responseType,
	})
	require.NoError(t, err)
	return c
}
