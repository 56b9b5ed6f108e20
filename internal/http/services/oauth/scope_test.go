package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateScope(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		previous  string
		want      string
		wantErr   bool
	}{
		{"equal", "read write", "read write", "read write", false},
		{"subset", "read", "read write", "read", false},
		{"reordered is returned as requested", "write read", "read write", "write read", false},
		{"duplicates pass through", "read read", "read write", "read read", false},
		{"extra whitespace kept verbatim", "  read\twrite ", "read write", "  read\twrite ", false},
		{"superset", "read write admin", "read write", "", true},
		{"disjoint", "admin", "read write", "", true},
		{"substring is not membership", "rea", "read write", "", true},
		{"empty against non-empty", "", "read", "", true},
		{"blank against non-empty", "   ", "read", "", true},
		{"empty against empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NegotiateScope(tt.requested, tt.previous)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidScope)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
