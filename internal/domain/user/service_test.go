package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

type fakeRepo struct {
	byEmail map[string]*User
	nextID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*User{}}
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	r.nextID++
	u.ID = r.nextID
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	for email, stored := range r.byEmail {
		if stored.ID == u.ID {
			saved := *u
			r.byEmail[email] = &saved
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *fakeRepo) List(context.Context, int, int) ([]*User, int64, error) { return nil, 0, nil }
func (r *fakeRepo) Delete(context.Context, uint) error                     { return nil }
func (r *fakeRepo) Count(context.Context) (int64, error)                   { return int64(len(r.byEmail)), nil }

func newTestService() Service {
	return NewService(newFakeRepo(), WithBcryptCost(bcrypt.MinCost))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "Alice@Example.com", "secret123", "Alice", []string{"Fantasy", "fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, []string{"Fantasy"}, u.FavouriteGenres)
	assert.False(t, u.IsAdmin)

	_, err = svc.Register(ctx, "alice@example.com", "secret123", "Alice", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "not-an-email", "secret123", "Bob", nil)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "bob@example.com", "short1", "Bob", nil)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = svc.Register(ctx, "bob@example.com", "onlyletters", "Bob", nil)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = svc.Register(ctx, "bob@example.com", "secret123", "B", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "carol@example.com", "secret123", "Carol", nil)
	require.NoError(t, err)

	u, err := svc.Login(ctx, "carol@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Carol", u.Name)

	_, err = svc.Login(ctx, "carol@example.com", "wrong123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestCheckDeletable(t *testing.T) {
	assert.ErrorIs(t, (&User{IsAdmin: true}).CheckDeletable(), ErrAdminUndeletable)
	assert.NoError(t, (&User{}).CheckDeletable())
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	u, err := svc.Register(ctx, "dave@example.com", "secret123", "Dave", []string{"Horror"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, strPtr("  David "), []string{"Sci-Fi", "sci-fi", "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "David", updated.Name)
	assert.Equal(t, []string{"Sci-Fi", "Fantasy"}, updated.FavouriteGenres)

	kept, err := svc.UpdateProfile(ctx, u.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "David", kept.Name)
	assert.Equal(t, []string{"Sci-Fi", "Fantasy"}, kept.FavouriteGenres)

	cleared, err := svc.UpdateProfile(ctx, u.ID, nil, []string{})
	require.NoError(t, err)
	assert.Empty(t, cleared.FavouriteGenres)

	_, err = svc.UpdateProfile(ctx, u.ID, strPtr(" D "), nil)
	assert.ErrorIs(t, err, ErrInvalidName)
	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "David", got.Name)

	_, err = svc.UpdateProfile(ctx, 404, strPtr("Nobody"), nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	admin, created, err := svc.EnsureAdmin(ctx, "Root@Example.com", "admin1234", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsVerified)
	assert.Equal(t, "root@example.com", admin.Email)

	again, created, err := svc.EnsureAdmin(ctx, "root@example.com", "other1234", "Administrator")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, err = svc.Login(ctx, "root@example.com", "admin1234")
	assert.NoError(t, err, "已存在的管理员密码不变")

	reader, err := svc.Register(ctx, "reader@example.com", "secret123", "Reader", nil)
	require.NoError(t, err)
	promoted, created, err := svc.EnsureAdmin(ctx, "reader@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, reader.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin)

	_, _, err = svc.EnsureAdmin(ctx, "fresh@example.com", "weak", "Fresh")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	_, _, err = svc.EnsureAdmin(ctx, "nope", "admin1234", "Fresh")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
