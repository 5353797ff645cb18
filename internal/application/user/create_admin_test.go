package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/readtrack/internal/domain/user"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

func TestCreateAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	users := mysql.NewUserRepository(openTestDB(t))
	svc := user.NewService(users, user.WithBcryptCost(bcrypt.MinCost))
	uc := NewCreateAdminUseCase(svc, zap.NewNop())

	first, created, err := uc.Execute(ctx, "admin@readtrack.local", "admin1234", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.IsAdmin)

	second, created, err := uc.Execute(ctx, "admin@readtrack.local", "admin1234", "Administrator")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := users.FindByEmail(ctx, "admin@readtrack.local")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("admin1234")))
	assert.ErrorIs(t, stored.CheckDeletable(), user.ErrAdminUndeletable)
}

func TestCreateAdmin_PromotesExistingUser(t *testing.T) {
	ctx := context.Background()
	users := mysql.NewUserRepository(openTestDB(t))
	svc := user.NewService(users, user.WithBcryptCost(bcrypt.MinCost))

	reader, err := svc.Register(ctx, "reader@example.com", "secret123", "Reader", []string{"Poetry"})
	require.NoError(t, err)

	info, created, err := NewCreateAdminUseCase(svc, zap.NewNop()).Execute(ctx, "reader@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, reader.ID, info.ID)

	stored, err := users.FindByID(ctx, reader.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
	assert.Equal(t, []string{"Poetry"}, stored.FavouriteGenres)

	_, err = svc.Login(ctx, "reader@example.com", "secret123")
	assert.NoError(t, err)
}

func TestCreateAdmin_Validation(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(mysql.NewUserRepository(openTestDB(t)), user.WithBcryptCost(bcrypt.MinCost))
	uc := NewCreateAdminUseCase(svc, zap.NewNop())

	_, _, err := uc.Execute(ctx, "admin@readtrack.local", "short", "Administrator")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}
