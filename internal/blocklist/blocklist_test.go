package blocklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, ttl), mr
}

func TestStore_AddThenContains(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	ok, err := s.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add(ctx, "jti-1"))

	ok, err = s.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := mr.Get("blocklist:jti-1")
	require.NoError(t, err)
	assert.Equal(t, "", val)
	assert.Equal(t, time.Hour, mr.TTL("blocklist:jti-1"))
}

func TestStore_EntryExpiresWithTTL(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "jti-1"))
	mr.FastForward(61 * time.Second)

	ok, err := s.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UnreachableReturnsError(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	mr.Close()

	_, err := s.Contains(context.Background(), "jti-1")
	require.Error(t, err)

	require.Error(t, s.Add(context.Background(), "jti-1"))
	require.Error(t, s.Ping(context.Background()))
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not a url")
	require.Error(t, err)
}

func TestNewClient_Pings(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer rdb.Close()

	assert.NoError(t, New(rdb, time.Minute).Ping(context.Background()))
}
