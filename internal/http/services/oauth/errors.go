package oauth

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
)

// Taxonomía OAuth2 (RFC 6749 §5.2). El texto de cada error es el código de wire.
var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrUnauthorizedClient   = errors.New("unauthorized_client")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrInvalidScope         = errors.New("invalid_scope")
)

// Fallas de servicio. No forman parte de la taxonomía y nunca se degradan a ella.
var (
	ErrServiceUnavailable = errors.New("temporarily_unavailable")
	ErrServerError        = errors.New("server_error")
)

// storeErr clasifica una falla del store. El detalle queda en la cadena
// para logs; el controller solo ve la clase.
func storeErr(op string, err error) error {
	if repository.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrServerError, err)
}

// IsServiceFailure reporta si err es una falla de servicio (no de taxonomía).
func IsServiceFailure(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrServerError)
}

var taxonomy = []error{
	ErrInvalidRequest,
	ErrInvalidClient,
	ErrInvalidGrant,
	ErrUnauthorizedClient,
	ErrUnsupportedGrantType,
	ErrInvalidScope,
	ErrServiceUnavailable,
	ErrServerError,
}

// ErrorCode devuelve el código OAuth2 de err. Cualquier error fuera de la
// taxonomía se reporta como server_error.
func ErrorCode(err error) string {
	for _, e := range taxonomy {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return ErrServerError.Error()
}
