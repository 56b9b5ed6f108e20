package oauth

import (
	"net/http"

	httperrors "github.com/dropDatabas3/tokenjohn/internal/http/errors"
)

// AuthorizeController es el placeholder de GET /oauth/authorize. El flujo
// authorization_code no está implementado.
type AuthorizeController struct{}

func NewAuthorizeController() *AuthorizeController { return &AuthorizeController{} }

func (c *AuthorizeController) Authorize(w http.ResponseWriter, r *http.Request) {
	httperrors.SetNoStore(w)
	httperrors.WriteError(w, httperrors.ErrNotImplemented.WithDetail("authorization_code flow is not available"))
}
