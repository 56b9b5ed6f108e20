package oauth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/tokenjohn/internal/http/dto/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	"github.com/dropDatabas3/tokenjohn/internal/observability/metrics"
	tokens "github.com/dropDatabas3/tokenjohn/internal/security/token"
)

// TokenService maneja la lógica del token endpoint.
type TokenService interface {
	Exchange(ctx context.Context, req TokenRequest) (*dto.TokenResponse, error)
}

// TokenRequest es un pedido al token endpoint ya autenticado por Basic.
type TokenRequest struct {
	ClientIdentifier string
	ClientSecret     string
	Grant            GrantType
}

// TokenDeps contiene las dependencias del token service.
type TokenDeps struct {
	Credentials   *CredentialVerifier
	Issuer        *TokenIssuer
	GrantTypes    repository.GrantTypeRepository
	RefreshTokens repository.RefreshTokenRepository
}

type tokenService struct {
	deps TokenDeps
}

func NewTokenService(deps TokenDeps) TokenService {
	return &tokenService{deps: deps}
}

// Exchange despacha por grant. Los errores son sentinels de la taxonomía o
// fallas de servicio envueltas (ErrServiceUnavailable, ErrServerError).
func (s *tokenService) Exchange(ctx context.Context, req TokenRequest) (*dto.TokenResponse, error) {
	grantName := GrantName(req.Grant)
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.token"),
		logger.ClientID(req.ClientIdentifier),
		logger.GrantType(grantName),
	)
	ctx = logger.ToContext(ctx, log)

	var (
		resp *dto.TokenResponse
		err  error
	)
	switch g := req.Grant.(type) {
	case ClientCredentialsGrant:
		resp, err = s.clientCredentials(ctx, req, g)
	case RefreshTokenGrant:
		resp, err = s.refreshToken(ctx, req, g)
	case AuthorizationCodeGrant:
		err = ErrUnsupportedGrantType
	default:
		err = ErrUnsupportedGrantType
	}

	if err != nil {
		metrics.TokenError(ErrorCode(err))
		if IsServiceFailure(err) {
			log.Error("token exchange failed", logger.Err(err))
		} else {
			log.Debug("token request rejected", logger.Err(err))
		}
		return nil, err
	}
	return resp, nil
}

func (s *tokenService) clientCredentials(ctx context.Context, req TokenRequest, g ClientCredentialsGrant) (*dto.TokenResponse, error) {
	client, err := s.deps.Credentials.Verify(ctx, req.ClientIdentifier, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	// un client público no puede usar este grant, pida lo que pida: este
	// chequeo va antes que el de scope, así un público sin scope recibe
	// unauthorized_client y no invalid_request.
	if !client.IsConfidential() {
		return nil, ErrUnauthorizedClient
	}

	if strings.TrimSpace(g.Scope) == "" {
		return nil, ErrInvalidRequest
	}

	grant, err := s.grantType(ctx, repository.GrantClientCredentials)
	if err != nil {
		return nil, err
	}

	at, err := s.deps.Issuer.IssueAccessToken(ctx, client, grant, g.Scope)
	if err != nil {
		return nil, err
	}
	metrics.TokenIssued(grant.Name, "access")

	rt, err := s.deps.Issuer.IssueRefreshToken(ctx, client, g.Scope)
	if err != nil {
		return nil, err
	}
	metrics.TokenIssued(grant.Name, "refresh")

	return s.response(at, rt)
}

func (s *tokenService) refreshToken(ctx context.Context, req TokenRequest, g RefreshTokenGrant) (*dto.TokenResponse, error) {
	if g.RefreshToken == "" {
		return nil, ErrInvalidRequest
	}

	client, err := s.deps.Credentials.Verify(ctx, req.ClientIdentifier, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	rt, err := s.lookupRefreshToken(ctx, client, g.RefreshToken)
	if err != nil {
		return nil, err
	}

	// Sin campo scope se hereda el del refresh token; un scope enviado
	// (aunque sea vacío) pasa por la negociación.
	requested := rt.Scope
	if g.ScopePresent {
		requested = g.Scope
	}
	scope, err := NegotiateScope(requested, rt.Scope)
	if err != nil {
		return nil, err
	}

	grant, err := s.grantType(ctx, repository.GrantRefreshToken)
	if err != nil {
		return nil, err
	}

	at, err := s.deps.Issuer.IssueAccessToken(ctx, client, grant, scope)
	if err != nil {
		return nil, err
	}
	metrics.TokenIssued(grant.Name, "access")

	// El refresh token no rota: se devuelve el mismo.
	return s.response(at, rt)
}

// lookupRefreshToken resuelve el refresh token del client. Malformado,
// inexistente, de otro client o expirado son todos ErrInvalidRequest.
func (s *tokenService) lookupRefreshToken(ctx context.Context, client *repository.Client, raw string) (*repository.RefreshToken, error) {
	log := logger.From(ctx)

	value, err := tokens.Canonical(raw)
	if err != nil {
		log.Debug("malformed refresh token")
		return nil, ErrInvalidRequest
	}

	rt, err := s.deps.RefreshTokens.GetByTokenAndClient(ctx, value, client.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("refresh token not found for client", logger.TokenFP(tokens.Fingerprint(value)))
			return nil, ErrInvalidRequest
		}
		return nil, storeErr("lookup refresh token", err)
	}

	if rt.Expired(s.deps.Issuer.Now()) {
		log.Debug("refresh token expired", zap.Timep("expires_at", rt.ExpiresAt))
		return nil, ErrInvalidRequest
	}
	return rt, nil
}

// grantType resuelve el dato de referencia; si falta en la base es ErrInvalidGrant.
func (s *tokenService) grantType(ctx context.Context, name string) (*repository.GrantType, error) {
	g, err := s.deps.GrantTypes.GetByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.From(ctx).Warn("grant type not seeded", logger.String("name", name))
			return nil, ErrInvalidGrant
		}
		return nil, storeErr("lookup grant type", err)
	}
	return g, nil
}

func (s *tokenService) response(at *repository.AccessToken, rt *repository.RefreshToken) (*dto.TokenResponse, error) {
	now := s.deps.Issuer.Now()

	resp, err := dto.NewTokenResponse(at.Token, at.Scope, dto.SecondsUntil(at.ExpiresAt, now))
	if err != nil {
		return nil, errors.Join(ErrServerError, err)
	}
	if rt == nil {
		return resp, nil
	}

	var refreshIn *int64
	if rt.ExpiresAt != nil {
		secs := dto.SecondsUntil(*rt.ExpiresAt, now)
		refreshIn = &secs
	}
	if _, err := resp.WithRefreshToken(rt.Token, refreshIn); err != nil {
		return nil, errors.Join(ErrServerError, err)
	}
	return resp, nil
}
