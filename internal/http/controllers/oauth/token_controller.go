package oauth

import (
	"net/http"

	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// TokenController handles POST /oauth/token.
type TokenController struct {
	service svc.TokenService
}

// NewTokenController creates the controller.
func NewTokenController(s svc.TokenService) *TokenController {
	return &TokenController{service: s}
}

// Token valida en orden: método, Basic auth, form, grant_type. Después
// delega en el service.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.token"))

	httperrors.SetNoStore(w)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	identifier, secret, ok := basicCredentials(r)
	if !ok {
		log.Debug("missing or malformed basic auth")
		httperrors.WriteOAuthError(w, svc.ErrInvalidClient)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", logger.Err(err))
		httperrors.WriteOAuthError(w, svc.ErrInvalidRequest)
		return
	}

	grant, err := svc.ParseGrant(r.PostForm)
	if err != nil {
		httperrors.WriteOAuthError(w, err)
		return
	}

	resp, err := c.service.Exchange(ctx, svc.TokenRequest{
		ClientIdentifier: identifier,
		ClientSecret:     secret,
		Grant:            grant,
	})
	if err != nil {
		httperrors.WriteOAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
