// Package oauth contiene los controllers HTTP de los endpoints OAuth2.
package oauth

import (
	"encoding/json"
	"net/http"

	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
)

// maxFormBytes limita el body de los forms OAuth.
const maxFormBytes = 64 << 10

// Controllers agrupa todos los controllers del dominio OAuth.
type Controllers struct {
	Token      *TokenController
	Introspect *IntrospectController
	Authorize  *AuthorizeController
}

// NewControllers crea el agregador de controllers OAuth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Token:      NewTokenController(s.Token),
		Introspect: NewIntrospectController(s.Introspect),
		Authorize:  NewAuthorizeController(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// basicCredentials extrae identifier:secret de HTTP Basic. Un header
// ausente, malformado o con identifier vacío da ok=false.
func basicCredentials(r *http.Request) (identifier, secret string, ok bool) {
	identifier, secret, ok = r.BasicAuth()
	if !ok || identifier == "" {
		return "", "", false
	}
	return identifier, secret, true
}
