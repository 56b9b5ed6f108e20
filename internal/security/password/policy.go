package password

import (
	"crypto/rand"
	"encoding/base64"
	"unicode"
)

// SecretPolicy valida secrets entregados al dar de alta un client.
type SecretPolicy struct {
	MinLength int
	// bcrypt ignora todo lo que pase de 72 bytes
	MaxBytes int
}

var DefaultSecretPolicy = SecretPolicy{MinLength: 16, MaxBytes: 72}

func (p SecretPolicy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	if p.MaxBytes > 0 && len(s) > p.MaxBytes {
		reasons = append(reasons, "too_long")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			reasons = append(reasons, "invalid_character")
			break
		}
	}
	return len(reasons) == 0, reasons
}

// GenerateSecret genera un secret aleatorio base64url de nBytes de entropía.
func GenerateSecret(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
