// Package password hashea y verifica client secrets (bcrypt y argon2id).
package password

import (
	"errors"
	"strings"
)

var (
	ErrEmptySecret   = errors.New("password: empty secret")
	ErrMalformedHash = errors.New("password: malformed hash")
	ErrUnknownScheme = errors.New("password: unknown hash scheme")
)

// Verify compara plain contra un hash almacenado, eligiendo el esquema por
// prefijo. Un mismatch retorna (false, nil); un hash ilegible retorna error.
func Verify(plain, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return verifyArgon2id(plain, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return verifyBcrypt(plain, hash)
	default:
		return false, ErrUnknownScheme
	}
}

// Hash genera un hash con el esquema pedido ("bcrypt" o "argon2id").
func Hash(scheme, plain string) (string, error) {
	switch scheme {
	case "", "bcrypt":
		return HashBcrypt(plain, DefaultBcryptCost)
	case "argon2id":
		return HashArgon2id(Default, plain)
	default:
		return "", ErrUnknownScheme
	}
}
