// Package oauth contiene los services del dominio OAuth2: verificación de
// credenciales, negociación de scope, emisión de tokens e introspección.
package oauth

import (
	"time"

	"github.com/dropDatabas3/tokenjohn/internal/store"
)

// Deps contiene las dependencias para crear los services OAuth.
type Deps struct {
	DAL    store.DataAccessLayer
	TTL    TTLPolicy
	Hasher PasswordHasher // nil usa DefaultHasher

	// Now y NewToken son opcionales (tests).
	Now      func() time.Time
	NewToken func() string
}

// Services agrupa todos los services del dominio OAuth.
type Services struct {
	Token      TokenService
	Introspect IntrospectService

	Credentials *CredentialVerifier
	Issuer      *TokenIssuer
}

// NewServices crea el agregador de services OAuth.
func NewServices(d Deps) Services {
	creds := NewCredentialVerifier(d.DAL.Clients(), d.Hasher)
	issuer := NewTokenIssuer(IssuerDeps{
		AccessTokens:  d.DAL.AccessTokens(),
		RefreshTokens: d.DAL.RefreshTokens(),
		TTL:           d.TTL,
		Now:           d.Now,
		NewToken:      d.NewToken,
	})

	return Services{
		Token: NewTokenService(TokenDeps{
			Credentials:   creds,
			Issuer:        issuer,
			GrantTypes:    d.DAL.GrantTypes(),
			RefreshTokens: d.DAL.RefreshTokens(),
		}),
		Introspect: NewIntrospectService(IntrospectDeps{
			Credentials:  creds,
			AccessTokens: d.DAL.AccessTokens(),
			Issuer:       issuer,
		}),
		Credentials: creds,
		Issuer:      issuer,
	}
}
