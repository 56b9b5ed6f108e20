package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
)

func introspectReq(id, secret, token string) IntrospectRequest {
	return IntrospectRequest{ClientIdentifier: id, ClientSecret: secret, Token: token}
}

func TestIntrospect_Active(t *testing.T) {
	f := newFixture(t, testAccessTTL, testRefreshTTL)
	f.addClient(t, "abcd1234", "abcd1234", repository.ClientTypeConfidential)
	issued := issueCC(t, f, "read write")
	at, err := f.store.AccessTokens().GetByToken(testContext(t), issued.AccessToken)
	require.NoError(t, err)

	res := f.svc.Introspect.Introspect(testContext(t), introspectReq("abcd1234", "abcd1234", issued.AccessToken))
	require.True(t, res.Active)
	assert.Equal(t, "read write", res.Scope)
	assert.Equal(t, "abcd1234", res.ClientID)
	assert.Equal(t, at.ExpiresAt.Unix(), res.Exp)
	assert.Equal(t, at.IssuedAt.Unix(), res.Iat)
}

func TestIntrospect_InactiveCases(t *testing.T) {
	f := newFixture(t, testAccessTTL, testRefreshTTL)
	f.addClient(t, "abcd1234", "abcd1234", repository.ClientTypeConfidential)
	f.addClient(t, "other", "other-secret", repository.ClientTypeConfidential)
	issued := issueCC(t, f, "read write")

	tests := []struct {
		name string
		req  IntrospectRequest
	}{
		{"other client", introspectReq("other", "other-secret", issued.AccessToken)},
		{"bad secret", introspectReq("abcd1234", "wrong", issued.AccessToken)},
		{"unknown client", introspectReq("ghost", "abcd1234", issued.AccessToken)},
		{"malformed token", introspectReq("abcd1234", "abcd1234", "garbage")},
		{"empty token", introspectReq("abcd1234", "abcd1234", "")},
		{"unknown token", introspectReq("abcd1234", "abcd1234", "6f1c1d9e-3a57-4a8e-9a59-0c3f4a1d2b7e")},
		// un refresh token no es un access token
		{"refresh token", introspectReq("abcd1234", "abcd1234", issued.RefreshToken)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.svc.Introspect.Introspect(testContext(t), tt.req)
			assert.False(t, res.Active)
			assert.Empty(t, res.Scope)
			assert.Empty(t, res.ClientID)
		})
	}
}

func TestIntrospect_ExpiryIsStrict(t *testing.T) {
	f := newFixture(t, 60, testRefreshTTL)
	f.addClient(t, "abcd1234", "abcd1234", repository.ClientTypeConfidential)
	issued := issueCC(t, f, "read")
	req := introspectReq("abcd1234", "abcd1234", issued.AccessToken)

	f.advance(59 * time.Second)
	require.True(t, f.svc.Introspect.Introspect(testContext(t), req).Active)

	f.advance(time.Second)
	require.False(t, f.svc.Introspect.Introspect(testContext(t), req).Active)
}

func TestIntrospect_ZeroTTLNeverActive(t *testing.T) {
	f := newFixture(t, 0, testRefreshTTL)
	f.addClient(t, "abcd1234", "abcd1234", repository.ClientTypeConfidential)
	issued := issueCC(t, f, "read")
	assert.Equal(t, int64(0), issued.ExpiresIn)

	res := f.svc.Introspect.Introspect(testContext(t), introspectReq("abcd1234", "abcd1234", issued.AccessToken))
	require.False(t, res.Active)
}

func TestIntrospect_StoreUnavailableIsInactive(t *testing.T) {
	f := newFixture(t, testAccessTTL, testRefreshTTL)
	f.addClient(t, "abcd1234", "abcd1234", repository.ClientTypeConfidential)
	issued := issueCC(t, f, "read")
	f.store.SetFailure(repository.ErrUnavailable)

	res := f.svc.Introspect.Introspect(testContext(t), introspectReq("abcd1234", "abcd1234", issued.AccessToken))
	require.False(t, res.Active)
}
