package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tokenjohn/internal/security/password"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(testContext(t))
	return out.String(), err
}

func TestHashSecret(t *testing.T) {
	for _, scheme := range []string{"bcrypt", "argon2id"} {
		t.Run(scheme, func(t *testing.T) {
			out, err := run(t, "", "hash-secret", "--scheme", scheme, "super-secret-value")
			require.NoError(t, err)

			ok, err := password.Verify("super-secret-value", strings.TrimSpace(out))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestHashSecret_FromStdin(t *testing.T) {
	out, err := run(t, "from-stdin-secret\n", "hash-secret")
	require.NoError(t, err)

	ok, err := password.Verify("from-stdin-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashSecret_UnknownScheme(t *testing.T) {
	_, err := run(t, "", "hash-secret", "--scheme", "md5", "x")
	require.ErrorIs(t, err, password.ErrUnknownScheme)
}

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "3600")
	t.Setenv("REFRESH_TOKEN_TTL", "86400")
}

func TestClientCreate_GeneratesSecret(t *testing.T) {
	setMemoryEnv(t)
	out, err := run(t, "", "--env-file", "", "client", "create", "--identifier", "svc-billing")
	require.NoError(t, err)

	assert.Contains(t, out, "client_id=svc-billing type=confidential")
	assert.Contains(t, out, "client_secret=")
}

func TestClientCreate_Validation(t *testing.T) {
	setMemoryEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad identifier", []string{"--identifier", "user:pass"}, "identifier"},
		{"bad type", []string{"--identifier", "svc", "--type", "admin"}, "--type"},
		{"short secret", []string{"--identifier", "svc", "--secret", "short"}, "too_short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--env-file", "", "client", "create"}, tt.args...)
			_, err := run(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
