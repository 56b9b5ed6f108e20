package oauth

import (
	"net/http"

	dto "github.com/dropDatabas3/tokenjohn/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
	svc "github.com/dropDatabas3/tokenjohn/internal/http/services/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

// IntrospectController handles POST /oauth/introspect.
type IntrospectController struct {
	service svc.IntrospectService
}

// NewIntrospectController creates a new introspect controller.
func NewIntrospectController(service svc.IntrospectService) *IntrospectController {
	return &IntrospectController{service: service}
}

// Introspect responde siempre 200 (RFC 7662). Auth faltante o form inválido
// también son {"active":false}; token_type_hint se ignora.
func (c *IntrospectController) Introspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.introspect"))

	httperrors.SetNoStore(w)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	identifier, secret, ok := basicCredentials(r)
	if !ok {
		log.Debug("missing or malformed basic auth")
		writeJSON(w, http.StatusOK, dto.Inactive())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		log.Debug("failed to parse form", logger.Err(err))
		writeJSON(w, http.StatusOK, dto.Inactive())
		return
	}

	result := c.service.Introspect(ctx, svc.IntrospectRequest{
		ClientIdentifier: identifier,
		ClientSecret:     secret,
		Token:            r.PostForm.Get("token"),
	})
	writeJSON(w, http.StatusOK, result)
}
