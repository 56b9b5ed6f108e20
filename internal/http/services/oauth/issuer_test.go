package oauth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tokenjohn/internal/config"
	"github.com/dropDatabas3/tokenjohn/internal/domain/repository"
	"github.com/dropDatabas3/tokenjohn/internal/store/adapters/memory"
)

func TestNewTTLPolicy(t *testing.T) {
	tests := []struct {
		name    string
		access  int64
		refresh int64
		wantErr bool
		never   bool
	}{
		{name: "normal", access: 3600, refresh: 86400},
		{name: "zero access", access: 0, refresh: 0},
		{name: "refresh never expires", access: 60, refresh: -1, never: true},
		{name: "negative access", access: -1, refresh: 10, wantErr: true},
		{name: "refresh -2", access: 60, refresh: -2, wantErr: true},
		{name: "largest representable", access: config.MaxTTLSeconds, refresh: config.MaxTTLSeconds},
		{name: "access overflows duration", access: 10_000_000_000, refresh: 10, wantErr: true},
		{name: "refresh overflows duration", access: 60, refresh: 10_000_000_000, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewTTLPolicy(tt.access, tt.refresh)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Duration(tt.access)*time.Second, p.Access)
			assert.Equal(t, tt.never, p.RefreshNeverExpires)
			assert.GreaterOrEqual(t, p.Access, time.Duration(0))
			assert.GreaterOrEqual(t, p.Refresh, time.Duration(0))
		})
	}
}

func TestTokenIssuer_Expiry(t *testing.T) {
	f := newFixture(t, testAccessTTL, testRefreshTTL)
	client := f.addClient(t, "svc", "secret-secret", repository.ClientTypeConfidential)
	grant, err := f.store.GrantTypes().GetByName(testContext(t), repository.GrantClientCredentials)
	require.NoError(t, err)

	at, err := f.svc.Issuer.IssueAccessToken(testContext(t), client, grant, "read")
	require.NoError(t, err)
	require.Equal(t, f.clock(), at.IssuedAt)
	require.Equal(t, at.IssuedAt.Add(time.Duration(testAccessTTL)*time.Second), at.ExpiresAt)
	require.Equal(t, grant.ID, at.GrantID)
	require.Equal(t, client.ID, at.ClientID)

	id, err := uuid.Parse(at.Token)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), id.Version())

	rt, err := f.svc.Issuer.IssueRefreshToken(testContext(t), client, "read")
	require.NoError(t, err)
	require.NotNil(t, rt.ExpiresAt)
	require.Equal(t, rt.IssuedAt.Add(time.Duration(testRefreshTTL)*time.Second), *rt.ExpiresAt)
	require.NotEqual(t, at.Token, rt.Token)
}

func TestTokenIssuer_ZeroTTLBornExpired(t *testing.T) {
	f := newFixture(t, 0, 0)
	client := f.addClient(t, "svc", "secret-secret", repository.ClientTypeConfidential)
	grant, _ := f.store.GrantTypes().GetByName(testContext(t), repository.GrantClientCredentials)

	at, err := f.svc.Issuer.IssueAccessToken(testContext(t), client, grant, "read")
	require.NoError(t, err)
	require.Equal(t, at.IssuedAt, at.ExpiresAt)
	require.True(t, at.Expired(at.IssuedAt))
}

func TestTokenIssuer_RefreshNeverExpires(t *testing.T) {
	f := newFixture(t, testAccessTTL, -1)
	client := f.addClient(t, "svc", "secret-secret", repository.ClientTypeConfidential)

	rt, err := f.svc.Issuer.IssueRefreshToken(testContext(t), client, "read")
	require.NoError(t, err)
	require.Nil(t, rt.ExpiresAt)
	require.False(t, rt.Expired(f.clock().Add(100*365*24*time.Hour)))
}

func TestTokenIssuer_TruncatesToMicroseconds(t *testing.T) {
	st := memory.New()
	ttl, _ := NewTTLPolicy(10, 10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.FixedZone("ART", -3*3600))
	iss := NewTokenIssuer(IssuerDeps{
		AccessTokens:  st.AccessTokens(),
		RefreshTokens: st.RefreshTokens(),
		TTL:           ttl,
		Now:           func() time.Time { return now },
	})

	got := iss.Now()
	require.Equal(t, time.UTC, got.Location())
	require.Equal(t, 123456000, got.Nanosecond())
}

func TestTokenIssuer_CollisionIsServerError(t *testing.T) {
	st := memory.New()
	ttl, _ := NewTTLPolicy(10, 10)
	iss := NewTokenIssuer(IssuerDeps{
		AccessTokens:  st.AccessTokens(),
		RefreshTokens: st.RefreshTokens(),
		TTL:           ttl,
		NewToken:      func() string { return "00000000-0000-4000-8000-000000000000" },
	})
	client := &repository.Client{ID: 1, Identifier: "svc"}
	grant := &repository.GrantType{ID: 1, Name: repository.GrantClientCredentials}

	_, err := iss.IssueAccessToken(testContext(t), client, grant, "read")
	require.NoError(t, err)
	_, err = iss.IssueAccessToken(testContext(t), client, grant, "read")
	require.ErrorIs(t, err, ErrServerError)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestTokenIssuer_StoreUnavailable(t *testing.T) {
	st := memory.New()
	ttl, _ := NewTTLPolicy(10, 10)
	iss := NewTokenIssuer(IssuerDeps{AccessTokens: st.AccessTokens(), RefreshTokens: st.RefreshTokens(), TTL: ttl})
	st.SetFailure(repository.ErrUnavailable)

	_, err := iss.IssueRefreshToken(testContext(t), &repository.Client{ID: 1}, "read")
	require.ErrorIs(t, err, ErrServiceUnavailable)
}
