package oauth

import (
	"context"
	"sync"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	"github.com/dropDatabas3/tokenjohn/internal/security/password"
)

// PasswordHasher verifica un secret contra el hash almacenado.
type PasswordHasher interface {
	Verify(plain, hash string) (bool, error)
}

// PasswordHasherFunc adapta una función a PasswordHasher.
type PasswordHasherFunc func(plain, hash string) (bool, error)

func (f PasswordHasherFunc) Verify(plain, hash string) (bool, error) { return f(plain, hash) }

// DefaultHasher despacha bcrypt/argon2id por prefijo del hash.
var DefaultHasher PasswordHasher = PasswordHasherFunc(password.Verify)

// dummyHash se compara cuando el client no existe, para que el tiempo de
// respuesta no delate qué identifiers existen.
var dummyHash = sync.OnceValue(func() string {
	s, err := password.GenerateSecret(18)
	if err != nil {
		s = "tokenjohn-dummy-secret"
	}
	h, err := password.HashBcrypt(s, password.DefaultBcryptCost)
	if err != nil {
		return ""
	}
	return h
})

// CredentialVerifier autentica clients por identifier + secret.
type CredentialVerifier struct {
	clients repository.ClientRepository
	hasher  PasswordHasher
}

func NewCredentialVerifier(clients repository.ClientRepository, hasher PasswordHasher) *CredentialVerifier {
	if hasher == nil {
		hasher = DefaultHasher
	}
	return &CredentialVerifier{clients: clients, hasher: hasher}
}

// Verify retorna el client autenticado. Client inexistente, secret incorrecto
// o hash ilegible colapsan en ErrInvalidClient; una falla del store se
// propaga como falla de servicio.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, secret string) (*repository.Client, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.credentials"),
		logger.ClientID(identifier),
	)

	client, err := v.clients.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			_, _ = v.hasher.Verify(secret, dummyHash())
			log.Debug("unknown client")
			return nil, ErrInvalidClient
		}
		return nil, storeErr("lookup client", err)
	}

	ok, err := v.hasher.Verify(secret, client.SecretHash)
	if err != nil {
		log.Warn("stored secret hash unreadable", logger.Err(err))
		return nil, ErrInvalidClient
	}
	if !ok {
		log.Debug("secret mismatch")
		return nil, ErrInvalidClient
	}
	return client, nil
}
