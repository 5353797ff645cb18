package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/rating"
	"github.com/xiebiao/readtrack/internal/domain/review"
	"github.com/xiebiao/readtrack/internal/domain/user"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/sqlite"
)

type recordingListener struct {
	mu      sync.Mutex
	changes []review.Change
}

func (l *recordingListener) ReviewChanged(_ context.Context, c review.Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

type failingRecomputer struct{}

func (failingRecomputer) Recompute(context.Context, uint) (rating.Summary, error) {
	return rating.Summary{}, errors.New("recompute failed")
}

type fixture struct {
	svc      review.Service
	books    book.Repository
	reviews  review.Repository
	users    user.Repository
	db       *gorm.DB
	tx       *mysql.TxManager
	listener *recordingListener
	bookID   uint
	alice    uint
	bob      uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(sqlite.MemoryDSN(), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{
		db:       db,
		tx:       mysql.NewTxManager(db),
		books:    mysql.NewBookRepository(db),
		reviews:  mysql.NewReviewRepository(db),
		users:    mysql.NewUserRepository(db),
		listener: &recordingListener{},
	}
	agg := rating.NewAggregator(f.reviews, f.books)
	f.svc = review.NewService(f.reviews, f.books, agg, f.tx, f.listener)

	b := book.NewBook("Book X", "Author", "", "", []string{"Fantasy"}, 2001, 300, 1)
	require.NoError(t, f.books.Create(ctx, b))
	f.bookID = b.ID

	alice := user.NewUser("alice@example.com", "hash", "Alice", nil)
	bob := user.NewUser("bob@example.com", "hash", "Bob", nil)
	require.NoError(t, f.users.Create(ctx, alice))
	require.NoError(t, f.users.Create(ctx, bob))
	f.alice, f.bob = alice.ID, bob.ID
	return f
}

func (f *fixture) aggregate(t *testing.T) (float64, int64) {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), f.bookID)
	require.NoError(t, err)
	return b.AverageRating, b.RatingCount
}

func strPtr(s string) *string { return &s }

func TestRatingLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	avg, count := f.aggregate(t)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	aliceReview, created, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)
	assert.True(t, created)
	avg, count = f.aggregate(t)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, int64(1), count)

	_, created, err = f.svc.UpsertReview(ctx, f.bookID, f.bob, 2, strPtr("meh"))
	require.NoError(t, err)
	assert.True(t, created)
	avg, count = f.aggregate(t)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, int64(2), count)

	require.NoError(t, f.svc.DeleteReview(ctx, aliceReview.ID, f.alice, false))
	avg, count = f.aggregate(t)
	assert.Equal(t, 2.0, avg)
	assert.Equal(t, int64(1), count)

	ops := []review.Op{}
	for _, c := range f.listener.changes {
		ops = append(ops, c.Op)
	}
	assert.Equal(t, []review.Op{review.OpCreate, review.OpCreate, review.OpDelete}, ops)
	assert.Equal(t, int64(1), f.listener.changes[2].Summary.Count)
}

func TestUpsertReview_UpdatesExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, created, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 5, strPtr("loved it"))
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "Alice", first.UserName)

	second, created, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 3, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Rating)
	assert.Equal(t, "loved it", second.Comment)

	third, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 3, strPtr(""))
	require.NoError(t, err)
	assert.Empty(t, third.Comment)

	list, err := f.svc.ListReviewsForBook(ctx, f.bookID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	avg, count := f.aggregate(t)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, int64(1), count)
}

func TestUpsertReview_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, score := range []int{0, 6, -1} {
		_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, score, nil)
		assert.ErrorIs(t, err, review.ErrInvalidRating)
	}

	_, _, err := f.svc.UpsertReview(ctx, 999, f.alice, 4, nil)
	assert.ErrorIs(t, err, review.ErrBookUnresolvable)

	n, err := f.reviews.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertReview_RollsBackWhenRecomputeFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := review.NewService(f.reviews, f.books, failingRecomputer{}, f.tx, f.listener)

	_, _, err := svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.Error(t, err)

	_, err = f.reviews.FindByBookAndUser(ctx, f.bookID, f.alice)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
	assert.Empty(t, f.listener.changes)
}

func TestDeleteReview_Authorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, r.ID, f.bob, false)
	assert.ErrorIs(t, err, review.ErrForbidden)
	_, err = f.reviews.FindByID(ctx, r.ID)
	assert.NoError(t, err, "越权删除后书评仍然存在")

	require.NoError(t, f.svc.DeleteReview(ctx, r.ID, f.bob, true))
	avg, count := f.aggregate(t)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	err = f.svc.DeleteReview(ctx, r.ID, f.alice, false)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)

	liked, err := f.svc.ToggleLike(ctx, r.ID, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.bob}, liked.Likes)
	assert.True(t, liked.LikedBy(f.bob))

	unliked, err := f.svc.ToggleLike(ctx, r.ID, f.bob)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = f.svc.ToggleLike(ctx, 12345, f.bob)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
}

func TestListReviewsForBook_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)
	second, _, err := f.svc.UpsertReview(ctx, f.bookID, f.bob, 2, nil)
	require.NoError(t, err)

	list, err := f.svc.ListReviewsForBook(ctx, f.bookID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "Bob", list[0].UserName)
}

func TestUpsertReview_ConcurrentWritersConverge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, score, nil)
			assert.NoError(t, err)
		}(i%5 + 1)
	}
	wg.Wait()

	list, err := f.svc.ListReviewsForBook(ctx, f.bookID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	avg, count := f.aggregate(t)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, float64(list[0].Rating), avg)
}

func TestRemoveUserReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := book.NewBook("Book Y", "Author", "", "", nil, 2002, 100, 1)
	require.NoError(t, f.books.Create(ctx, other))

	_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 5, nil)
	require.NoError(t, err)
	_, _, err = f.svc.UpsertReview(ctx, other.ID, f.alice, 1, nil)
	require.NoError(t, err)
	bobReview, _, err := f.svc.UpsertReview(ctx, f.bookID, f.bob, 3, nil)
	require.NoError(t, err)
	_, err = f.svc.ToggleLike(ctx, bobReview.ID, f.alice)
	require.NoError(t, err)

	affected, err := f.svc.RemoveUserReviews(ctx, f.alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{f.bookID, other.ID}, affected)

	avg, count := f.aggregate(t)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, int64(1), count)

	y, err := f.books.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, y.RatingCount)

	remaining, err := f.reviews.FindByID(ctx, bobReview.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining.Likes)
}

func TestToggleLike_ConcurrentTogglesPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ToggleLike(ctx, r.ID, f.bob)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.reviews.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestToggleLike_DeletedReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteReview(ctx, r.ID, f.alice, false))

	_, err = f.svc.ToggleLike(ctx, r.ID, f.bob)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
}

func TestRemoveUserReviews_JoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 5, nil)
	require.NoError(t, err)

	var affected []uint
	err = f.tx.Transaction(ctx, func(ctx context.Context) error {
		// 事务内新写入的书评同样被删除并参与重算
		later := book.NewBook("Book Z", "Author", "", "", nil, 2003, 90, 1)
		if err := f.books.Create(ctx, later); err != nil {
			return err
		}
		if _, _, err := f.svc.UpsertReview(ctx, later.ID, f.alice, 2, nil); err != nil {
			return err
		}
		var err error
		affected, err = f.svc.RemoveUserReviews(ctx, f.alice)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, affected, 2)

	for _, id := range affected {
		b, err := f.books.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, b.RatingCount)
		assert.Zero(t, b.AverageRating)
	}
	n, err := f.reviews.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemoveUserReviews_RollsBackWhenRecomputeFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 5, nil)
	require.NoError(t, err)

	svc := review.NewService(f.reviews, f.books, failingRecomputer{}, f.tx)
	_, err = svc.RemoveUserReviews(ctx, f.alice)
	require.Error(t, err)

	_, err = f.reviews.FindByBookAndUser(ctx, f.bookID, f.alice)
	assert.NoError(t, err)
	avg, count := f.aggregate(t)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, int64(1), count)
}

func TestUpsertReview_DuplicateReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := book.NewBook("Book Y", "Author", "", "", nil, 2002, 100, 1)
	require.NoError(t, f.books.Create(ctx, other))
	// 每个用户只允许一条书评的额外约束
	require.NoError(t, f.db.Exec("CREATE UNIQUE INDEX uk_reviews_single_user ON reviews(user_id)").Error)

	_, _, err := f.svc.UpsertReview(ctx, f.bookID, f.alice, 4, nil)
	require.NoError(t, err)

	_, _, err = f.svc.UpsertReview(ctx, other.ID, f.alice, 2, nil)
	assert.ErrorIs(t, err, review.ErrDuplicateReview)

	y, err := f.books.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, y.RatingCount)
}
