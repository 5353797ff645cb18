package review

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/rating"
	"github.com/xiebiao/readtrack/internal/domain/shared"
	"github.com/xiebiao/readtrack/pkg/metrics"
	"github.com/xiebiao/readtrack/pkg/tracing"
)

const tracerName = "readtrack/review"

// BookLocker 锁定图书行
type BookLocker interface {
	LockByID(ctx context.Context, id uint) (*book.Book, error)
}

// Recomputer 评分重算
type Recomputer interface {
	Recompute(ctx context.Context, bookID uint) (rating.Summary, error)
}

// Op 书评变更类型
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change 一次已提交的书评变更
type Change struct {
	Op       Op
	BookID   uint
	ReviewID uint
	UserID   uint
	Summary  rating.Summary // 变更后的评分汇总
}

// Listener 书评变更监听者,在事务提交后被调用
// 监听者自行处理错误(缓存失效、事件发布失败不影响已提交的写入)
type Listener interface {
	ReviewChanged(ctx context.Context, change Change)
}

// Service 书评生命周期管理
// 设计说明:
// 1. 每次新增、修改、删除都在同一事务内完成书评写入与评分重算,重算失败则写入回滚
// 2. 事务内先锁定图书行,同一本书的书评写入串行执行
// 3. 唯一性由(book_id, user_id)唯一索引与原子upsert保证
type Service interface {
	// UpsertReview 新增或更新书评,created表示是否为新建
	UpsertReview(ctx context.Context, bookID, userID uint, rating int, comment *string) (*Review, bool, error)

	// DeleteReview 删除书评(作者或管理员)
	DeleteReview(ctx context.Context, reviewID, requesterID uint, requesterIsAdmin bool) error

	// ListReviewsForBook 图书书评列表,最新在前
	ListReviewsForBook(ctx context.Context, bookID uint) ([]*Review, error)

	// ToggleLike 切换点赞
	ToggleLike(ctx context.Context, reviewID, userID uint) (*Review, error)

	// RemoveUserReviews 删除用户的全部书评与点赞并重算受影响图书,返回受影响图书ID
	// 需要在调用方事务内执行
	RemoveUserReviews(ctx context.Context, userID uint) ([]uint, error)

	// RemoveBookReviews 删除图书的全部书评(图书删除时级联)
	RemoveBookReviews(ctx context.Context, bookID uint) error
}

type service struct {
	repo       Repository
	books      BookLocker
	recomputer Recomputer
	tx         shared.Transactor
	listeners  []Listener
}

// NewService 创建书评服务
func NewService(repo Repository, books BookLocker, recomputer Recomputer, tx shared.Transactor, listeners ...Listener) Service {
	return &service{
		repo:       repo,
		books:      books,
		recomputer: recomputer,
		tx:         tx,
		listeners:  listeners,
	}
}

func (s *service) UpsertReview(ctx context.Context, bookID, userID uint, score int, comment *string) (*Review, bool, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpsertReview")
	defer span.End()
	span.SetAttributes(attribute.Int64("book_id", int64(bookID)), attribute.Int64("user_id", int64(userID)))

	if err := ValidateRating(score); err != nil {
		return nil, false, err
	}

	var (
		saved   *Review
		created bool
		summary rating.Summary
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.lockBook(ctx, bookID); err != nil {
			return err
		}

		// 图书行已锁定,同一本书的写入已串行,此处的存在性判断只用于区分201/200
		_, err := s.repo.FindByBookAndUser(ctx, bookID, userID)
		switch {
		case err == nil:
			created = false
		case errors.Is(err, ErrReviewNotFound):
			created = true
		default:
			return err
		}

		if err := s.repo.Upsert(ctx, UpsertParams{
			BookID:  bookID,
			UserID:  userID,
			Rating:  score,
			Comment: comment,
		}); err != nil {
			return err
		}

		if summary, err = s.recomputer.Recompute(ctx, bookID); err != nil {
			return err
		}

		saved, err = s.repo.FindByBookAndUser(ctx, bookID, userID)
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, false, err
	}

	op := OpUpdate
	if created {
		op = OpCreate
	}
	metrics.IncCounterVec(metrics.ReviewMutationsTotal, map[string]string{"op": string(op)})
	s.notify(ctx, Change{Op: op, BookID: bookID, ReviewID: saved.ID, UserID: userID, Summary: summary})

	return saved, created, nil
}

func (s *service) DeleteReview(ctx context.Context, reviewID, requesterID uint, requesterIsAdmin bool) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteReview")
	defer span.End()
	span.SetAttributes(attribute.Int64("review_id", int64(reviewID)))

	r, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !r.CanBeDeletedBy(requesterID, requesterIsAdmin) {
		return ErrForbidden
	}

	var summary rating.Summary
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.books.LockByID(ctx, r.BookID); err != nil {
			return err
		}
		// 并发删除时第二个请求在此得到ErrReviewNotFound
		if err := s.repo.Delete(ctx, reviewID); err != nil {
			return err
		}
		summary, err = s.recomputer.Recompute(ctx, r.BookID)
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	metrics.IncCounterVec(metrics.ReviewMutationsTotal, map[string]string{"op": string(OpDelete)})
	s.notify(ctx, Change{Op: OpDelete, BookID: r.BookID, ReviewID: reviewID, UserID: r.UserID, Summary: summary})
	return nil
}

func (s *service) ListReviewsForBook(ctx context.Context, bookID uint) ([]*Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

func (s *service) ToggleLike(ctx context.Context, reviewID, userID uint) (*Review, error) {
	var liked bool
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 同一书评的点赞切换串行执行
		if err := s.repo.LockByID(ctx, reviewID); err != nil {
			return err
		}
		var err error
		liked, err = s.repo.ToggleLike(ctx, reviewID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	metrics.IncCounterVec(metrics.ReviewLikesToggledTotal, map[string]string{"action": action})

	return s.repo.FindByID(ctx, reviewID)
}

func (s *service) RemoveUserReviews(ctx context.Context, userID uint) ([]uint, error) {
	locked := []uint{}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 读取与删除之间该用户不能再写入新书评
		bookIDs, err := s.repo.LockBookIDsByUser(ctx, userID)
		if err != nil {
			return err
		}
		// 固定加锁顺序,避免与其他多书事务死锁
		sort.Slice(bookIDs, func(i, j int) bool { return bookIDs[i] < bookIDs[j] })

		for _, id := range bookIDs {
			_, err := s.books.LockByID(ctx, id)
			if errors.Is(err, book.ErrBookNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			locked = append(locked, id)
		}
		if err := s.repo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		for _, id := range locked {
			if _, err := s.recomputer.Recompute(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locked, nil
}

func (s *service) RemoveBookReviews(ctx context.Context, bookID uint) error {
	return s.repo.DeleteByBook(ctx, bookID)
}

// lockBook 锁定图书行,图书不存在视为参数错误
func (s *service) lockBook(ctx context.Context, bookID uint) error {
	_, err := s.books.LockByID(ctx, bookID)
	if errors.Is(err, book.ErrBookNotFound) {
		return ErrBookUnresolvable
	}
	return err
}

func (s *service) notify(ctx context.Context, change Change) {
	for _, l := range s.listeners {
		l.ReviewChanged(ctx, change)
	}
}
