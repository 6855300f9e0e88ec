package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	failErr error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewRedisCache(fake, "export:")

	_, found, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "abc", []byte("<p>hi</p>"), time.Minute))
	assert.Contains(t, fake.data, "export:abc")
	assert.Equal(t, time.Minute, fake.ttls["export:abc"])

	val, found, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<p>hi</p>", string(val))

	require.NoError(t, c.Delete(ctx, "abc"))
	assert.NotContains(t, fake.data, "export:abc")

	require.NoError(t, c.Close())
	assert.True(t, fake.closed)
}

func TestRedisCache_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.failErr = errors.New("connection reset")
	c := NewRedisCache(fake, "")

	_, found, err := c.Get(ctx, "k")
	assert.False(t, found)
	assert.ErrorContains(t, err, "connection reset")

	assert.ErrorContains(t, c.Set(ctx, "k", []byte("v"), time.Second), "failed to write cache key")
	assert.ErrorContains(t, c.Delete(ctx, "k"), "failed to delete cache key")
}

func TestRedisCache_NegativeTTL(t *testing.T) {
	fake := newFakeRedis()
	c := NewRedisCache(fake, "")
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), -time.Second))
	assert.Equal(t, time.Duration(0), fake.ttls["k"])
}
