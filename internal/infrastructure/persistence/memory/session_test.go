package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.SaveSession(ctx, 1, map[string]interface{}{"email": "a@b.c", "login_at": 1}, time.Hour))
	sess, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", sess["login_at"])

	require.NoError(t, s.AddToBlacklist(ctx, "token", time.Minute))
	revoked, _ := s.IsInBlacklist(ctx, "token")
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = s.IsInBlacklist(ctx, "token")
	assert.False(t, revoked)
	_, err = s.GetSession(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_DeleteSession(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	require.NoError(t, s.SaveSession(ctx, 7, map[string]interface{}{"email": "x@y.z"}, time.Hour))
	require.NoError(t, s.DeleteSession(ctx, 7))
	_, err := s.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
