// Package validation valida los datos de alta de clients (CLI).
package validation

import (
	"regexp"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
)

// Reglas del identifier:
// - Empieza y termina con [A-Za-z0-9].
// - En el medio admite [A-Za-z0-9._-].
// - Largo 1..64.
// - Nunca ":" (rompería el header Basic) ni espacios.
//
// Válidos: abcd1234, svc-billing, reports.worker_2
// Inválidos: "", -lead, trail., "has space", user:pass, 65+ chars.
var clientIdentifierRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9\._-]{0,62}[A-Za-z0-9])?$`)

// ValidClientIdentifier retorna true si el identifier cumple el patrón.
func ValidClientIdentifier(id string) bool {
	return clientIdentifierRe.MatchString(id)
}

// ValidResponseType acepta "confidential" y "public". Solo los
// confidential pueden usar client_credentials.
func ValidResponseType(t string) bool {
	switch t {
	case repository.ClientTypeConfidential, ClientTypePublic:
		return true
	}
	return false
}

// ClientTypePublic es el response_type de clients sin secret confiable.
const ClientTypePublic = "public"
