package repository

import (
	"context"
	"time"
)

// AccessToken nunca se muta; la expiración se evalúa al usarlo.
type AccessToken struct {
	ID        int64
	Token     string
	ClientID  int64
	GrantID   int64
	Scope     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reporta si el token ya no está vivo en now (vivo solo si now < ExpiresAt).
func (t *AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// RefreshToken: ExpiresAt nil significa que nunca expira.
type RefreshToken struct {
	ID        int64
	Token     string
	ClientID  int64
	Scope     string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// Expired es siempre false para tokens sin expiración.
func (t *RefreshToken) Expired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !now.Before(*t.ExpiresAt)
}

// CreateAccessTokenInput contiene los datos para persistir un access token.
type CreateAccessTokenInput struct {
	Token     string
	ClientID  int64
	GrantID   int64
	Scope     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CreateRefreshTokenInput contiene los datos para persistir un refresh token.
type CreateRefreshTokenInput struct {
	Token     string
	ClientID  int64
	Scope     string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// AccessTokenRepository define operaciones sobre access tokens.
type AccessTokenRepository interface {
	// Create retorna ErrConflict si el valor de token ya existe.
	Create(ctx context.Context, input CreateAccessTokenInput) (*AccessToken, error)

	// GetByToken retorna ErrNotFound si no existe.
	GetByToken(ctx context.Context, token string) (*AccessToken, error)
}

// RefreshTokenRepository define operaciones sobre refresh tokens.
type RefreshTokenRepository interface {
	// Create retorna ErrConflict si el valor de token ya existe.
	Create(ctx context.Context, input CreateRefreshTokenInput) (*RefreshToken, error)

	// GetByTokenAndClient busca el token del client dado (el más reciente si
	// hubiera más de uno). Retorna ErrNotFound si no existe o es de otro client.
	GetByTokenAndClient(ctx context.Context, token string, clientID int64) (*RefreshToken, error)
}
