package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("tj", time.Minute)

	_, err := c.Get(ctx, "client:abcd1234")
	require.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "client:abcd1234", `{"id":1}`, 0))
	v, err := c.Get(ctx, "client:abcd1234")
	require.NoError(t, err)
	require.Equal(t, `{"id":1}`, v)

	// las keys quedan prefijadas en el backend
	_, ok := c.Underlying().Get("tj:client:abcd1234")
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "client:abcd1234"))
	_, err = c.Get(ctx, "client:abcd1234")
	require.ErrorIs(t, err, ErrNotFound)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, "memory", st.Driver)
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(2), st.Misses)
}

func TestMemory_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", 0)

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNew_Drivers(t *testing.T) {
	c, err := New(Config{Driver: "memory"})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))

	_, err = New(Config{Driver: "memcached"})
	require.Error(t, err)
}
