//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

func TestBookCache(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testRedis.FlushDB(ctx).Err())
	cache := redis.NewBookCache(testRedis, time.Minute, time.Second)

	_, err := cache.Get(ctx, 42)
	assert.ErrorIs(t, err, book.ErrCacheMiss)

	b := book.NewBook("Lilith's Brood", "Octavia E. Butler", "", "", []string{"Sci-Fi"}, 2000, 752, 1)
	b.ID = 42
	b.AverageRating, b.RatingCount = 4.5, 2
	require.NoError(t, cache.Set(ctx, b))

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, []string{"Sci-Fi"}, got.Genres)
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Equal(t, int64(2), got.RatingCount)

	ttl, err := testRedis.TTL(ctx, "readtrack:book:42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx, 42))
	_, err = cache.Get(ctx, 42)
	assert.ErrorIs(t, err, book.ErrCacheMiss)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testRedis.FlushDB(ctx).Err())
	store := redis.NewSessionStore(testRedis)

	require.NoError(t, store.SaveSession(ctx, 7, map[string]interface{}{
		"email":    "alice@example.com",
		"login_ip": "127.0.0.1",
	}, time.Minute))

	session, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", session["email"])

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	revoked, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
	revoked, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}
