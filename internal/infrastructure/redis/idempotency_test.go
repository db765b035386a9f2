package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute), mr
}

func TestClaimRelease(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.Claim(ctx, "adjust:u-1:k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(keyPrefix+"adjust:u-1:k1"))

	ok, err = s.Claim(ctx, "adjust:u-1:k1")
	require.NoError(t, err)
	assert.False(t, ok, "segunda reserva rechazada")

	require.NoError(t, s.Release(ctx, "adjust:u-1:k1"))
	ok, err = s.Claim(ctx, "adjust:u-1:k1")
	require.NoError(t, err)
	assert.True(t, ok, "tras liberar se puede reservar de nuevo")
}

func TestClaimExpira(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = s.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNew_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	_, err = New(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
