// Package memory implementa un store en proceso. Sirve para desarrollo
// (storage.driver=memory) y para los tests de services y controllers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/store"
)

func init() {
	store.RegisterAdapter(adapter{})
}

type adapter struct{}

func (adapter) Name() string { return "memory" }

func (adapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.DataAccessLayer, error) {
	return New(), nil
}

// Store guarda todo en mapas protegidos por un RWMutex.
type Store struct {
	mu sync.RWMutex

	seq     int64
	fail    error
	clients map[string]repository.Client
	grants  map[string]repository.GrantType
	access  map[string]repository.AccessToken
	refresh map[string][]repository.RefreshToken
}

// New crea un store vacío con los grant types de la migración inicial.
func New() *Store {
	s := &Store{
		clients: make(map[string]repository.Client),
		grants:  make(map[string]repository.GrantType),
		access:  make(map[string]repository.AccessToken),
		refresh: make(map[string][]repository.RefreshToken),
	}
	for _, name := range []string{
		repository.GrantClientCredentials,
		repository.GrantRefreshToken,
		repository.GrantAuthorizationCode,
	} {
		s.seq++
		s.grants[name] = repository.GrantType{ID: s.seq, Name: name}
	}
	return s
}

// SetFailure hace que toda operación posterior falle con err (nil la desactiva).
// Simula un pool saturado o una base caída.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// DeleteGrantType quita un grant type sembrado.
func (s *Store) DeleteGrantType(name string) {
	s.mu.Lock()
	delete(s.grants, name)
	s.mu.Unlock()
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fail
}

func (s *Store) Close() error { return nil }

func (s *Store) Clients() repository.ClientRepository             { return clientRepo{s} }
func (s *Store) GrantTypes() repository.GrantTypeRepository       { return grantRepo{s} }
func (s *Store) AccessTokens() repository.AccessTokenRepository   { return accessRepo{s} }
func (s *Store) RefreshTokens() repository.RefreshTokenRepository { return refreshRepo{s} }

// ─── Clients ───

type clientRepo struct{ s *Store }

func (r clientRepo) GetByIdentifier(ctx context.Context, identifier string) (*repository.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	c, ok := r.s.clients[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r clientRepo) Create(ctx context.Context, in repository.CreateClientInput) (*repository.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, exists := r.s.clients[in.Identifier]; exists {
		return nil, repository.ErrConflict
	}
	c := repository.Client{
		ID:           r.s.nextID(),
		Identifier:   in.Identifier,
		SecretHash:   in.SecretHash,
		ResponseType: in.ResponseType,
	}
	r.s.clients[c.Identifier] = c
	return &c, nil
}

// ─── Grant types ───

type grantRepo struct{ s *Store }

func (r grantRepo) GetByName(ctx context.Context, name string) (*repository.GrantType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	g, ok := r.s.grants[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

// ─── Access tokens ───

type accessRepo struct{ s *Store }

func (r accessRepo) Create(ctx context.Context, in repository.CreateAccessTokenInput) (*repository.AccessToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, exists := r.s.access[in.Token]; exists {
		return nil, repository.ErrConflict
	}
	t := repository.AccessToken{
		ID:        r.s.nextID(),
		Token:     in.Token,
		ClientID:  in.ClientID,
		GrantID:   in.GrantID,
		Scope:     in.Scope,
		IssuedAt:  in.IssuedAt,
		ExpiresAt: in.ExpiresAt,
	}
	r.s.access[t.Token] = t
	return &t, nil
}

func (r accessRepo) GetByToken(ctx context.Context, token string) (*repository.AccessToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	t, ok := r.s.access[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// ─── Refresh tokens ───

type refreshRepo struct{ s *Store }

func (r refreshRepo) Create(ctx context.Context, in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if len(r.s.refresh[in.Token]) > 0 {
		return nil, repository.ErrConflict
	}
	t := repository.RefreshToken{
		ID:       r.s.nextID(),
		Token:    in.Token,
		ClientID: in.ClientID,
		Scope:    in.Scope,
		IssuedAt: in.IssuedAt,
	}
	if in.ExpiresAt != nil {
		exp := *in.ExpiresAt
		t.ExpiresAt = &exp
	}
	r.s.refresh[t.Token] = append(r.s.refresh[t.Token], t)
	return &t, nil
}

func (r refreshRepo) GetByTokenAndClient(ctx context.Context, token string, clientID int64) (*repository.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	var matches []repository.RefreshToken
	for _, t := range r.s.refresh[token] {
		if t.ClientID == clientID {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].IssuedAt.After(matches[j].IssuedAt) })
	t := matches[0]
	return &t, nil
}
