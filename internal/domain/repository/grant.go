package repository

import "context"

// Nombres de grant type sembrados por la migración inicial.
const (
	GrantClientCredentials = "client_credentials"
	GrantRefreshToken      = "refresh_token"
	GrantAuthorizationCode = "authorization_code"
)

// GrantType es dato de referencia estático.
type GrantType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GrantTypeRepository resuelve grant types por nombre.
type GrantTypeRepository interface {
	// GetByName retorna ErrNotFound si el nombre no está sembrado.
	GetByName(ctx context.Context, name string) (*GrantType, error)
}
