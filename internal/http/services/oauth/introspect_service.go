package oauth

import (
	"context"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/tokenjohn/internal/http/dto/oauth"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	"github.com/dropDatabas3/tokenjohn/internal/observability/metrics"
	tokens "github.com/dropDatabas3/tokenjohn/internal/security/token"
)

// IntrospectService defines operations for token introspection.
type IntrospectService interface {
	// Introspect nunca falla: cualquier problema es un resultado inactivo.
	Introspect(ctx context.Context, req IntrospectRequest) *dto.IntrospectResult
}

// IntrospectRequest: credenciales del caller y el token presentado.
type IntrospectRequest struct {
	ClientIdentifier string
	ClientSecret     string
	Token            string
}

// IntrospectDeps contains dependencies for the introspect service.
type IntrospectDeps struct {
	Credentials  *CredentialVerifier
	AccessTokens repository.AccessTokenRepository
	Issuer       *TokenIssuer // solo como reloj
}

type introspectService struct {
	deps IntrospectDeps
}

// NewIntrospectService creates a new IntrospectService.
func NewIntrospectService(deps IntrospectDeps) IntrospectService {
	return &introspectService{deps: deps}
}

func (s *introspectService) Introspect(ctx context.Context, req IntrospectRequest) *dto.IntrospectResult {
	res := s.introspect(ctx, req)
	metrics.Introspection(res.Active)
	return res
}

// introspect corre los pasos en orden fijo; el primero que falla corta con inactivo.
func (s *introspectService) introspect(ctx context.Context, req IntrospectRequest) *dto.IntrospectResult {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.introspect"),
		logger.Op("Introspect"),
		logger.ClientID(req.ClientIdentifier),
	)

	// 1. caller
	client, err := s.deps.Credentials.Verify(ctx, req.ClientIdentifier, req.ClientSecret)
	if err != nil {
		if IsServiceFailure(err) {
			log.Warn("introspection degraded to inactive", logger.Err(err))
		}
		return dto.Inactive()
	}

	// 2. forma canónica
	value, err := tokens.Canonical(req.Token)
	if err != nil {
		log.Debug("malformed token")
		return dto.Inactive()
	}
	log = log.With(logger.TokenFP(tokens.Fingerprint(value)))

	// 3. lookup
	at, err := s.deps.AccessTokens.GetByToken(ctx, value)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Warn("introspection degraded to inactive", logger.Err(err))
		}
		return dto.Inactive()
	}

	// 4. ownership
	if at.ClientID != client.ID {
		log.Debug("token owned by another client")
		return dto.Inactive()
	}

	// 5. liveness (estricto: now < expires_at)
	if at.Expired(s.deps.Issuer.Now()) {
		log.Debug("token expired")
		return dto.Inactive()
	}

	return &dto.IntrospectResult{
		Active:   true,
		Scope:    at.Scope,
		ClientID: client.Identifier,
		Exp:      at.ExpiresAt.Unix(),
		Iat:      at.IssuedAt.Unix(),
	}
}
