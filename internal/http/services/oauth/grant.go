package oauth

import (
	"net/url"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
)

// GrantType es la variante cerrada de grants que acepta el token endpoint.
// Solo este paquete puede implementarla.
type GrantType interface {
	grantName() string
}

// ClientCredentialsGrant: grant_type=client_credentials (M2M).
type ClientCredentialsGrant struct {
	Scope string
}

// RefreshTokenGrant: grant_type=refresh_token. ScopePresent distingue un
// scope ausente (hereda el del refresh token) de uno enviado vacío.
type RefreshTokenGrant struct {
	RefreshToken string
	Scope        string
	ScopePresent bool
}

// AuthorizationCodeGrant existe para que el caso quede explícito; siempre
// responde unsupported_grant_type.
type AuthorizationCodeGrant struct {
	Code string
}

func (ClientCredentialsGrant) grantName() string { return repository.GrantClientCredentials }
func (RefreshTokenGrant) grantName() string      { return repository.GrantRefreshToken }
func (AuthorizationCodeGrant) grantName() string { return repository.GrantAuthorizationCode }

// GrantName devuelve el grant_type de wire de g ("" si g es nil).
func GrantName(g GrantType) string {
	if g == nil {
		return ""
	}
	return g.grantName()
}

// ParseGrant construye la variante a partir del form del token endpoint.
// Un grant_type ausente o desconocido es ErrUnsupportedGrantType.
func ParseGrant(form url.Values) (GrantType, error) {
	switch form.Get("grant_type") {
	case repository.GrantClientCredentials:
		return ClientCredentialsGrant{Scope: form.Get("scope")}, nil
	case repository.GrantRefreshToken:
		return RefreshTokenGrant{
			RefreshToken: form.Get("refresh_token"),
			Scope:        form.Get("scope"),
			ScopePresent: form.Has("scope"),
		}, nil
	case repository.GrantAuthorizationCode:
		return AuthorizationCodeGrant{Code: form.Get("code")}, nil
	default:
		return nil, ErrUnsupportedGrantType
	}
}
