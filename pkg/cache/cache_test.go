package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")

	data, ok, _ := c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), data)

	hits, misses, size := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 2, size)
}

func TestLRUCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(4, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLRUCache_InvalidSize(t *testing.T) {
	c := NewLRUCache(0, time.Minute)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	_, ok, _ := c.Get(context.Background(), "k")
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("petpet", "a", "b"), Key("petpet", "a", "b"))
	assert.NotEqual(t, Key("petpet", "ab"), Key("petpet", "a", "b"))
	assert.NotEqual(t, Key("petpet", "x"), Key("propaganda", "x"))
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("down")
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(4, time.Minute)
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	for i := 0; i < 3; i++ {
		data, err := Remember(ctx, c, "k", compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("rendered"), data)
	}
	assert.Equal(t, 1, calls)

	// A broken store degrades to computing every time.
	data, err := Remember(ctx, failingStore{}, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("rendered"), data)
	assert.Equal(t, 2, calls)

	_, err = Remember(ctx, c, "other", func() ([]byte, error) { return nil, errors.New("render failed") })
	assert.Error(t, err)
	_, ok, _ := c.Get(ctx, "other")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis test: REDIS_URL not set")
	}

	c, err := NewRedisCache(url, "logician_test", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := Key("test", time.Now().String())

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte{0x47, 0x49, 0x46}))
	data, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x47, 0x49, 0x46}, data)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not a url", "", time.Minute)
	assert.Error(t, err)
}
