package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedBook struct {
	BookID int    `json:"bookId"`
	Title  string `json:"title"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheFromClient(client), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "book:info:7", cachedBook{BookID: 7, Title: "Dorian"}, time.Minute)
	require.NoError(t, err)

	var got cachedBook
	found, err := c.Get(ctx, "book:info:7", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedBook{BookID: 7, Title: "Dorian"}, got)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got cachedBook
	found, err := c.Get(context.Background(), "book:info:404", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, got)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "book:info:7", cachedBook{BookID: 7}, time.Minute))
	require.NoError(t, c.Delete(ctx, "book:info:7"))

	var got cachedBook
	found, err := c.Get(ctx, "book:info:7", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, "book:info:7"))
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "book:info:7", cachedBook{BookID: 7}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedBook
	found, err := c.Get(ctx, "book:info:7", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
