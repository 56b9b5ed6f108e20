package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
)

// Descripciones fijas por código. Nunca se expone el detalle interno.
var oauthDescriptions = map[string]string{
	"invalid_request":         "The request is missing a required parameter or is otherwise malformed",
	"invalid_client":          "Client authentication failed",
	"invalid_grant":           "The grant type is not available",
	"unauthorized_client":     "The client is not authorized to use this grant type",
	"unsupported_grant_type":  "The grant type is not supported",
	"invalid_scope":           "The requested scope exceeds the scope previously granted",
	"temporarily_unavailable": "The service is temporarily unavailable",
	"server_error":            "An unexpected error occurred",
}

// OAuthErrorResponse es el body de error del token endpoint (RFC 6749 §5.2).
type OAuthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// OAuthStatus mapea un error de los services OAuth a (status HTTP, código).
func OAuthStatus(err error) (int, string) {
	switch {
	case errors.Is(err, svc.ErrInvalidClient):
		return http.StatusUnauthorized, svc.ErrInvalidClient.Error()
	case errors.Is(err, svc.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, svc.ErrServiceUnavailable.Error()
	case errors.Is(err, svc.ErrServerError):
		return http.StatusInternalServerError, svc.ErrServerError.Error()
	case errors.Is(err, svc.ErrInvalidRequest),
		errors.Is(err, svc.ErrInvalidGrant),
		errors.Is(err, svc.ErrUnauthorizedClient),
		errors.Is(err, svc.ErrUnsupportedGrantType),
		errors.Is(err, svc.ErrInvalidScope):
		return http.StatusBadRequest, svc.ErrorCode(err)
	default:
		return http.StatusInternalServerError, svc.ErrServerError.Error()
	}
}

// SetNoStore pone los headers de no-cache que llevan todas las respuestas OAuth.
func SetNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteOAuthError escribe err con el formato OAuth2. invalid_client agrega
// el challenge Basic.
func WriteOAuthError(w http.ResponseWriter, err error) {
	status, code := OAuthStatus(err)

	SetNoStore(w)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Basic")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(OAuthErrorResponse{
		Error:            code,
		ErrorDescription: oauthDescriptions[code],
	})
}
