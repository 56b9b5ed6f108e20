// Package token genera y normaliza los tokens opacos (UUID v4) que emite el servicio.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

var ErrMalformed = errors.New("token: malformed")

// New genera un UUID v4 aleatorio (crypto/rand) en forma canónica.
func New() string {
	return uuid.NewString()
}

// Canonical normaliza s a la forma canónica (minúsculas con guiones).
// Un string que no es UUID retorna ErrMalformed. Solo se acepta la forma de
// 36 caracteres: uuid.Parse también toma urn:uuid: y {...} sin mirar los
// delimitadores, así que " <uuid> " pasaría.
func Canonical(s string) (string, error) {
	if len(s) != 36 {
		return "", ErrMalformed
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrMalformed
	}
	return id.String(), nil
}

// Fingerprint devuelve un prefijo de sha256(token) apto para logs.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:9])
}
