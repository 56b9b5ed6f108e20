package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(nil, "", 2, time.Minute)
	base := time.Date(2024, 1, 1, 10, 0, 15, 0, time.UTC)
	l.now = func() time.Time { return base }
	ctx := context.Background()

	r, err := l.Allow(ctx, "1.2.3.4|/oauth/token")
	require.NoError(t, err)
	require.True(t, r.Allowed)
	require.Equal(t, int64(1), r.Remaining)

	r, _ = l.Allow(ctx, "1.2.3.4|/oauth/token")
	require.True(t, r.Allowed)
	require.Equal(t, int64(0), r.Remaining)

	r, _ = l.Allow(ctx, "1.2.3.4|/oauth/token")
	require.False(t, r.Allowed)
	require.Equal(t, int64(3), r.CurrentHits)
	require.Equal(t, 45*time.Second, r.RetryAfter)

	// otra key no comparte ventana
	r, _ = l.Allow(ctx, "5.6.7.8|/oauth/token")
	require.True(t, r.Allowed)

	// ventana siguiente
	l.now = func() time.Time { return base.Add(time.Minute) }
	r, _ = l.Allow(ctx, "1.2.3.4|/oauth/token")
	require.True(t, r.Allowed)
	require.Equal(t, int64(1), r.CurrentHits)
}

func TestWindowKey(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	require.Equal(t, "rl:a_b:1700000000", windowKey("rl:", "a b", ts))
}
