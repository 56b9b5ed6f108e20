// Package pg implementa el adapter PostgreSQL del token store sobre pgxpool.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.DataAccessLayer, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w: %w", repository.ErrUnavailable, err)
	}

	return NewConnection(pool, cfg.AcquireTimeout), nil
}

// Connection es un DataAccessLayer sobre un pool ya abierto.
type Connection struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewConnection envuelve un pool existente. acquireTimeout <= 0 deja el
// checkout limitado solo por el contexto del request.
func NewConnection(pool *pgxpool.Pool, acquireTimeout time.Duration) *Connection {
	return &Connection{pool: pool, acquireTimeout: acquireTimeout}
}

func (c *Connection) Name() string { return "postgres" }

// Pool expone el pool para métricas y migraciones.
func (c *Connection) Pool() *pgxpool.Pool { return c.pool }

func (c *Connection) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pg: ping: %w: %w", repository.ErrUnavailable, err)
	}
	return nil
}

func (c *Connection) Close() error {
	c.pool.Close()
	return nil
}

func (c *Connection) Clients() repository.ClientRepository             { return &clientRepo{c} }
func (c *Connection) GrantTypes() repository.GrantTypeRepository       { return &grantRepo{c} }
func (c *Connection) AccessTokens() repository.AccessTokenRepository   { return &accessRepo{c} }
func (c *Connection) RefreshTokens() repository.RefreshTokenRepository { return &refreshRepo{c} }

// acquire hace el checkout con el timeout configurado. Un timeout o un pool
// cerrado se reportan como ErrUnavailable.
func (c *Connection) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx := ctx
	if c.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, c.acquireTimeout)
		defer cancel()
	}
	conn, err := c.pool.Acquire(actx)
	if err != nil {
		return nil, fmt.Errorf("pg: acquire: %w: %w", repository.ErrUnavailable, err)
	}
	return conn, nil
}

// mapErr traduce errores del driver a los errores de dominio.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("pg: %s: %w", op, repository.ErrConflict)
		case pgErr.Code == "22P02": // invalid_text_representation (uuid mal formado)
			return repository.ErrNotFound
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "53" || pgErr.Code[:2] == "57"):
			return fmt.Errorf("pg: %s: %w: %w", op, repository.ErrUnavailable, err)
		}
		return fmt.Errorf("pg: %s: %w", op, err)
	}

	// Red, contexto vencido, conexión cerrada.
	return fmt.Errorf("pg: %s: %w: %w", op, repository.ErrUnavailable, err)
}

// ─── ClientRepository ───

type clientRepo struct{ c *Connection }

func (r *clientRepo) GetByIdentifier(ctx context.Context, identifier string) (*repository.Client, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `SELECT id, identifier, secret, response_type FROM clients WHERE identifier = $1`
	var cl repository.Client
	err = conn.QueryRow(ctx, query, identifier).Scan(&cl.ID, &cl.Identifier, &cl.SecretHash, &cl.ResponseType)
	if err != nil {
		return nil, mapErr("get client", err)
	}
	return &cl, nil
}

func (r *clientRepo) Create(ctx context.Context, in repository.CreateClientInput) (*repository.Client, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `
		INSERT INTO clients (identifier, secret, response_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	cl := repository.Client{Identifier: in.Identifier, SecretHash: in.SecretHash, ResponseType: in.ResponseType}
	if err := conn.QueryRow(ctx, query, in.Identifier, in.SecretHash, in.ResponseType).Scan(&cl.ID); err != nil {
		return nil, mapErr("create client", err)
	}
	return &cl, nil
}

// ─── GrantTypeRepository ───

type grantRepo struct{ c *Connection }

func (r *grantRepo) GetByName(ctx context.Context, name string) (*repository.GrantType, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var g repository.GrantType
	err = conn.QueryRow(ctx, `SELECT id, name FROM grant_types WHERE name = $1`, name).Scan(&g.ID, &g.Name)
	if err != nil {
		return nil, mapErr("get grant type", err)
	}
	return &g, nil
}

// ─── AccessTokenRepository ───

type accessRepo struct{ c *Connection }

func (r *accessRepo) Create(ctx context.Context, in repository.CreateAccessTokenInput) (*repository.AccessToken, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `
		INSERT INTO access_tokens (token, client_id, grant_id, scope, issued_at, expires_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
		RETURNING id
	`
	t := repository.AccessToken{
		Token:     in.Token,
		ClientID:  in.ClientID,
		GrantID:   in.GrantID,
		Scope:     in.Scope,
		IssuedAt:  in.IssuedAt,
		ExpiresAt: in.ExpiresAt,
	}
	err = conn.QueryRow(ctx, query, in.Token, in.ClientID, in.GrantID, in.Scope, in.IssuedAt, in.ExpiresAt).Scan(&t.ID)
	if err != nil {
		return nil, mapErr("create access token", err)
	}
	return &t, nil
}

func (r *accessRepo) GetByToken(ctx context.Context, token string) (*repository.AccessToken, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `
		SELECT id, token::text, client_id, grant_id, scope, issued_at, expires_at
		FROM access_tokens WHERE token = $1::uuid
	`
	var t repository.AccessToken
	err = conn.QueryRow(ctx, query, token).Scan(
		&t.ID, &t.Token, &t.ClientID, &t.GrantID, &t.Scope, &t.IssuedAt, &t.ExpiresAt,
	)
	if err != nil {
		return nil, mapErr("get access token", err)
	}
	return &t, nil
}

// ─── RefreshTokenRepository ───

type refreshRepo struct{ c *Connection }

func (r *refreshRepo) Create(ctx context.Context, in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `
		INSERT INTO refresh_tokens (token, client_id, scope, issued_at, expires_at)
		VALUES ($1::uuid, $2, $3, $4, $5)
		RETURNING id
	`
	t := repository.RefreshToken{
		Token:     in.Token,
		ClientID:  in.ClientID,
		Scope:     in.Scope,
		IssuedAt:  in.IssuedAt,
		ExpiresAt: in.ExpiresAt,
	}
	err = conn.QueryRow(ctx, query, in.Token, in.ClientID, in.Scope, in.IssuedAt, in.ExpiresAt).Scan(&t.ID)
	if err != nil {
		return nil, mapErr("create refresh token", err)
	}
	return &t, nil
}

func (r *refreshRepo) GetByTokenAndClient(ctx context.Context, token string, clientID int64) (*repository.RefreshToken, error) {
	conn, err := r.c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	const query = `
		SELECT id, token::text, client_id, scope, issued_at, expires_at
		FROM refresh_tokens
		WHERE token = $1::uuid AND client_id = $2
		ORDER BY issued_at DESC
		LIMIT 1
	`
	var t repository.RefreshToken
	err = conn.QueryRow(ctx, query, token, clientID).Scan(
		&t.ID, &t.Token, &t.ClientID, &t.Scope, &t.IssuedAt, &t.ExpiresAt,
	)
	if err != nil {
		return nil, mapErr("get refresh token", err)
	}
	return &t, nil
}
