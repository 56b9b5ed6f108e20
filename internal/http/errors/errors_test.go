package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
)

func TestOAuthStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{svc.ErrInvalidRequest, 400, "invalid_request"},
		{svc.ErrInvalidClient, 401, "invalid_client"},
		{svc.ErrInvalidGrant, 400, "invalid_grant"},
		{svc.ErrUnauthorizedClient, 400, "unauthorized_client"},
		{svc.ErrUnsupportedGrantType, 400, "unsupported_grant_type"},
		{svc.ErrInvalidScope, 400, "invalid_scope"},
		{fmt.Errorf("lookup client: %w", svc.ErrServiceUnavailable), 503, "temporarily_unavailable"},
		{fmt.Errorf("issue: %w", svc.ErrServerError), 500, "server_error"},
		{fmt.Errorf("random"), 500, "server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code := OAuthStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteOAuthError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOAuthError(rec, svc.ErrInvalidClient)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Basic", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "no-cache, no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))

	var body OAuthErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid_client", body.Error)

	rec = httptest.NewRecorder()
	WriteOAuthError(rec, fmt.Errorf("pg: acquire: %w", svc.ErrServiceUnavailable))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
	assert.NotContains(t, rec.Body.String(), "pg:")
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrNotImplemented.WithDetail("authorize"))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_IMPLEMENTED"`)

	rec = httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("boom"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
