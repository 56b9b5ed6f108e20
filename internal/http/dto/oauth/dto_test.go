package oauth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenResponse_Validates(t *testing.T) {
	_, err := NewTokenResponse("tok", "read", -1)
	require.ErrorIs(t, err, ErrNegativeExpiresIn)

	_, err = NewTokenResponse("", "read", 10)
	require.ErrorIs(t, err, ErrEmptyAccessToken)

	r, err := NewTokenResponse("tok", "read", 0)
	require.NoError(t, err)
	require.Equal(t, "Bearer", r.TokenType)

	neg := int64(-5)
	_, err = r.WithRefreshToken("rt", &neg)
	require.ErrorIs(t, err, ErrNegativeExpiresIn)
}

func TestTokenResponse_JSONOptionalRefresh(t *testing.T) {
	r, err := NewTokenResponse("tok", "read write", 3600)
	require.NoError(t, err)

	b, _ := json.Marshal(r)
	assert.JSONEq(t, `{"token_type":"Bearer","expires_in":3600,"access_token":"tok","scope":"read write"}`, string(b))

	_, err = r.WithRefreshToken("rt", nil)
	require.NoError(t, err)
	b, _ = json.Marshal(r)
	assert.JSONEq(t, `{"token_type":"Bearer","expires_in":3600,"access_token":"tok","scope":"read write","refresh_token":"rt"}`, string(b))

	exp := int64(7200)
	_, err = r.WithRefreshToken("rt", &exp)
	require.NoError(t, err)
	b, _ = json.Marshal(r)
	assert.Contains(t, string(b), `"refresh_expires_in":7200`)
}

func TestSecondsUntil(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		exp  time.Time
		want int64
	}{
		{"exact", now.Add(3600 * time.Second), 3600},
		{"partial rounds up", now.Add(1500 * time.Millisecond), 2},
		{"equal", now, 0},
		{"past clamps", now.Add(-time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecondsUntil(tt.exp, now))
		})
	}
}

func TestIntrospectResult_JSON(t *testing.T) {
	b, err := json.Marshal(Inactive())
	require.NoError(t, err)
	assert.Equal(t, `{"active":false}`, string(b))

	// un inactivo con campos cargados igual sale vacío
	b, _ = json.Marshal(&IntrospectResult{Active: false, Scope: "x", ClientID: "c"})
	assert.Equal(t, `{"active":false}`, string(b))

	b, _ = json.Marshal(&IntrospectResult{Active: true, Scope: "read write", ClientID: "abcd1234", Exp: 20, Iat: 10})
	assert.JSONEq(t, `{"active":true,"scope":"read write","client_id":"abcd1234","exp":20,"iat":10}`, string(b))
}
