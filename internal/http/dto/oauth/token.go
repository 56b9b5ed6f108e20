// Package oauth contiene los DTOs de los endpoints OAuth2.
package oauth

import (
	"errors"
	"time"
)

// TokenTypeBearer es el único token_type que se emite.
const TokenTypeBearer = "Bearer"

var (
	ErrNegativeExpiresIn = errors.New("dto: expires_in must be >= 0")
	ErrEmptyAccessToken  = errors.New("dto: access_token is empty")
)

// TokenResponse es el body de éxito de POST /oauth/token (RFC 6749 §5.1).
type TokenResponse struct {
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	AccessToken      string `json:"access_token"`
	Scope            string `json:"scope"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn *int64 `json:"refresh_expires_in,omitempty"`
}

// NewTokenResponse construye la respuesta validando sus invariantes.
func NewTokenResponse(accessToken, scope string, expiresIn int64) (*TokenResponse, error) {
	if accessToken == "" {
		return nil, ErrEmptyAccessToken
	}
	if expiresIn < 0 {
		return nil, ErrNegativeExpiresIn
	}
	return &TokenResponse{
		TokenType:   TokenTypeBearer,
		ExpiresIn:   expiresIn,
		AccessToken: accessToken,
		Scope:       scope,
	}, nil
}

// WithRefreshToken agrega el refresh token. expiresIn nil significa que no
// expira y el campo refresh_expires_in se omite.
func (r *TokenResponse) WithRefreshToken(token string, expiresIn *int64) (*TokenResponse, error) {
	if expiresIn != nil && *expiresIn < 0 {
		return nil, ErrNegativeExpiresIn
	}
	r.RefreshToken = token
	r.RefreshExpiresIn = expiresIn
	return r, nil
}

// SecondsUntil devuelve los segundos (redondeo hacia arriba) que faltan para
// exp. Un exp pasado o igual a now da 0.
func SecondsUntil(exp, now time.Time) int64 {
	d := exp.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
