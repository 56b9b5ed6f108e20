package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/tokenjohn/internal/config"
	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	tokens "github.com/dropDatabas3/tokenjohn/internal/security/token"
)

// TTLPolicy son los TTLs ya validados con los que se emiten tokens.
type TTLPolicy struct {
	Access  time.Duration
	Refresh time.Duration
	// RefreshNeverExpires deja ExpiresAt en nil; Refresh se ignora.
	RefreshNeverExpires bool
}

// NewTTLPolicy valida TTLs en segundos: access >= 0, refresh >= 0 o -1.
func NewTTLPolicy(accessSeconds, refreshSeconds int64) (TTLPolicy, error) {
	// por encima de MaxTTLSeconds la multiplicación a Duration desborda
	if accessSeconds < 0 || accessSeconds > config.MaxTTLSeconds {
		return TTLPolicy{}, fmt.Errorf("oauth: access token ttl must be between 0 and %d, got %d", config.MaxTTLSeconds, accessSeconds)
	}
	if (refreshSeconds < 0 && refreshSeconds != config.RefreshNeverExpires) || refreshSeconds > config.MaxTTLSeconds {
		return TTLPolicy{}, fmt.Errorf("oauth: refresh token ttl must be between 0 and %d or %d, got %d", config.MaxTTLSeconds, config.RefreshNeverExpires, refreshSeconds)
	}
	p := TTLPolicy{Access: time.Duration(accessSeconds) * time.Second}
	if refreshSeconds == config.RefreshNeverExpires {
		p.RefreshNeverExpires = true
	} else {
		p.Refresh = time.Duration(refreshSeconds) * time.Second
	}
	return p, nil
}

// IssuerDeps contiene las dependencias del TokenIssuer.
type IssuerDeps struct {
	AccessTokens  repository.AccessTokenRepository
	RefreshTokens repository.RefreshTokenRepository
	TTL           TTLPolicy

	// Now y NewToken son inyectables para tests.
	Now      func() time.Time
	NewToken func() string
}

// TokenIssuer genera y persiste access y refresh tokens.
type TokenIssuer struct {
	deps IssuerDeps
}

func NewTokenIssuer(deps IssuerDeps) *TokenIssuer {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewToken == nil {
		deps.NewToken = tokens.New
	}
	return &TokenIssuer{deps: deps}
}

// Now es el reloj del issuer, en UTC y con precisión de microsegundos
// (la de timestamptz en Postgres).
func (i *TokenIssuer) Now() time.Time {
	return i.deps.Now().UTC().Truncate(time.Microsecond)
}

// IssueAccessToken emite un access token para client con el scope dado.
// Una colisión de token o una falla de persistencia es una falla de servicio.
func (i *TokenIssuer) IssueAccessToken(ctx context.Context, client *repository.Client, grant *repository.GrantType, scope string) (*repository.AccessToken, error) {
	issuedAt := i.Now()
	at, err := i.deps.AccessTokens.Create(ctx, repository.CreateAccessTokenInput{
		Token:     i.deps.NewToken(),
		ClientID:  client.ID,
		GrantID:   grant.ID,
		Scope:     scope,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(i.deps.TTL.Access),
	})
	if err != nil {
		return nil, storeErr("issue access token", err)
	}

	logger.From(ctx).Debug("access token issued",
		logger.Layer("service"),
		logger.ClientID(client.Identifier),
		logger.GrantType(grant.Name),
		logger.TokenFP(tokens.Fingerprint(at.Token)),
	)
	return at, nil
}

// IssueRefreshToken emite un refresh token. Con RefreshNeverExpires no lleva expiración.
func (i *TokenIssuer) IssueRefreshToken(ctx context.Context, client *repository.Client, scope string) (*repository.RefreshToken, error) {
	issuedAt := i.Now()
	in := repository.CreateRefreshTokenInput{
		Token:    i.deps.NewToken(),
		ClientID: client.ID,
		Scope:    scope,
		IssuedAt: issuedAt,
	}
	if !i.deps.TTL.RefreshNeverExpires {
		exp := issuedAt.Add(i.deps.TTL.Refresh)
		in.ExpiresAt = &exp
	}

	rt, err := i.deps.RefreshTokens.Create(ctx, in)
	if err != nil {
		return nil, storeErr("issue refresh token", err)
	}
	return rt, nil
}
