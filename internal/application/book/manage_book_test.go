package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/sqlite"
)

var errDiskFull = errors.New("disk full")

// failAfterUpdate 写入成功后再报错,模拟更新后半段失败
type failAfterUpdate struct {
	book.Repository
}

func (r failAfterUpdate) Update(ctx context.Context, b *book.Book) error {
	if err := r.Repository.Update(ctx, b); err != nil {
		return err
	}
	return errDiskFull
}

type countingCache struct {
	book.NopCache
	invalidated []uint
}

func (c *countingCache) Invalidate(_ context.Context, id uint) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestUpdateBook_Transactional(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(sqlite.MemoryDSN(), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := mysql.NewBookRepository(db)
	tx := mysql.NewTxManager(db)
	b := book.NewBook("Dune", "Frank Herbert", "", "", []string{"Sci-Fi", "Classic"}, 1965, 412, 1)
	require.NoError(t, repo.Create(ctx, b))

	cache := &countingCache{}
	failing := NewUpdateBookUseCase(tx, book.NewService(failAfterUpdate{repo}), cache)
	_, err = failing.Execute(ctx, b.ID, book.UpdateParams{Title: strPtr("Dune Messiah"), Genres: []string{"Space Opera"}})
	require.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, cache.invalidated)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.ElementsMatch(t, []string{"Sci-Fi", "Classic"}, got.Genres)

	uc := NewUpdateBookUseCase(tx, book.NewService(repo), cache)
	updated, err := uc.Execute(ctx, b.ID, book.UpdateParams{Title: strPtr("Dune Messiah"), Genres: []string{"Space Opera"}})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, []uint{b.ID}, cache.invalidated)

	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Space Opera"}, got.Genres)
}
