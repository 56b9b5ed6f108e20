// Package errors define los errores HTTP de la aplicación: AppError para
// superficies no-OAuth y el mapeo de la taxonomía OAuth2 a status/código.
package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores HTTP no-OAuth.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FromError convierte un error genérico en AppError; si no lo es, devuelve
// un 500 conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con detail, para no mutar los predefinidos.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// Errores predefinidos de las superficies no-OAuth (router, rate limit, recover).
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "No existe la ruta pedida.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Método no soportado por este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Se superó el límite de requests de la ventana actual.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Error interno.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrNotImplemented = &AppError{
		Code:       "NOT_IMPLEMENTED",
		Message:    "Este flujo no está disponible.",
		HTTPStatus: http.StatusNotImplemented,
	}
)
