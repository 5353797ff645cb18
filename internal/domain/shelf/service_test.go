package shelf_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/shelf"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/sqlite"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (shelf.Service, *gorm.DB, uint) {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryDSN(), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	books := mysql.NewBookRepository(db)
	b := book.NewBook("Dune", "Frank Herbert", "", "", []string{"Sci-Fi"}, 1965, 412, 1)
	require.NoError(t, books.Create(context.Background(), b))

	svc := shelf.NewService(mysql.NewShelfRepository(db), books, mysql.NewTxManager(db),
		shelf.WithClock(func() time.Time { return fixedNow }))
	return svc, db, b.ID
}

// insertLegacy 直接写入旧版书架行(状态为空或旧枚举值,没有added_at)
func insertLegacy(t *testing.T, db *gorm.DB, userID, bookID uint, rawStatus string, page int) {
	t.Helper()
	require.NoError(t, db.Create(&mysql.ShelfEntryModel{
		UserID:      userID,
		BookID:      bookID,
		Status:      rawStatus,
		CurrentPage: page,
	}).Error)
}

func intPtr(n int) *int { return &n }

func TestUpsertShelf_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, bookID := setup(t)

	first, err := svc.UpsertShelf(ctx, 1, bookID, "WANT_TO_READ", nil)
	require.NoError(t, err)
	assert.Equal(t, shelf.StatusWantToRead, first.Status)
	assert.True(t, fixedNow.Equal(first.AddedAt))
	assert.Equal(t, "Dune", first.Book.Title)

	second, err := svc.UpsertShelf(ctx, 1, bookID, "reading", intPtr(120))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, shelf.StatusReading, second.Status)
	assert.Equal(t, 120, second.CurrentPage)

	third, err := svc.UpsertShelf(ctx, 1, bookID, "finished", nil)
	require.NoError(t, err)
	assert.Equal(t, shelf.StatusRead, third.Status)
	assert.Equal(t, 120, third.CurrentPage, "未提供进度时保留原值")

	entries, err := svc.ListMyShelves(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpsertShelf_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, bookID := setup(t)

	_, err := svc.UpsertShelf(ctx, 1, bookID, "ABANDONED", nil)
	assert.ErrorIs(t, err, shelf.ErrInvalidStatus)

	_, err = svc.UpsertShelf(ctx, 1, bookID, "READING", intPtr(-3))
	assert.ErrorIs(t, err, shelf.ErrInvalidProgress)

	_, err = svc.UpsertShelf(ctx, 1, 404, "READING", nil)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	entries, err := svc.ListMyShelves(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpsertShelf_ConcurrentFirstWrites(t *testing.T) {
	ctx := context.Background()
	svc, _, bookID := setup(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			_, err := svc.UpsertShelf(ctx, 7, bookID, "READING", intPtr(page))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := svc.ListMyShelves(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListMyShelves_UpgradesLegacyRecords(t *testing.T) {
	ctx := context.Background()
	svc, db, bookID := setup(t)

	books := mysql.NewBookRepository(db)
	other := book.NewBook("Emma", "Jane Austen", "", "", nil, 1815, 0, 1)
	require.NoError(t, books.Create(ctx, other))

	insertLegacy(t, db, 3, bookID, "", 0)
	insertLegacy(t, db, 3, other.ID, "currentlyReading", -5)

	entries, err := svc.ListMyShelves(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byBook := map[uint]*shelf.Entry{}
	for _, e := range entries {
		byBook[e.BookID] = e
	}
	assert.Equal(t, shelf.StatusWantToRead, byBook[bookID].Status)
	assert.True(t, fixedNow.Equal(byBook[bookID].AddedAt))
	assert.Equal(t, shelf.StatusReading, byBook[other.ID].Status)
	assert.Zero(t, byBook[other.ID].CurrentPage)

	n, err := svc.UpgradeLegacy(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n, "升级是幂等的")
}

func TestRemoveShelf(t *testing.T) {
	ctx := context.Background()
	svc, _, bookID := setup(t)

	_, err := svc.UpsertShelf(ctx, 1, bookID, "READ", nil)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveShelf(ctx, 1, bookID))
	require.NoError(t, svc.RemoveShelf(ctx, 1, bookID), "重复删除不是错误")

	entries, err := svc.ListMyShelves(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, db, bookID := setup(t)

	_, err := svc.UpsertShelf(ctx, 1, bookID, "READ", nil)
	require.NoError(t, err)
	_, err = svc.UpsertShelf(ctx, 2, bookID, "READING", nil)
	require.NoError(t, err)
	insertLegacy(t, db, 3, bookID, "finished", 0)

	all, err := svc.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, shelf.Breakdown{WantToRead: 0, Reading: 1, Read: 2, Total: 3}, all)

	mine, err := svc.Stats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Reading)
	assert.Equal(t, int64(1), mine.Total)
}

func TestUpsertShelf_DuplicateEntry(t *testing.T) {
	ctx := context.Background()
	svc, db, bookID := setup(t)

	other := book.NewBook("Emma", "Jane Austen", "", "", nil, 1815, 0, 1)
	require.NoError(t, mysql.NewBookRepository(db).Create(ctx, other))
	// 每个用户只允许一条书架记录的额外约束
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX uk_shelf_single_user ON shelf_entries(user_id)").Error)

	_, err := svc.UpsertShelf(ctx, 1, bookID, "READ", nil)
	require.NoError(t, err)

	_, err = svc.UpsertShelf(ctx, 1, other.ID, "READ", nil)
	assert.ErrorIs(t, err, shelf.ErrDuplicateEntry)
}
