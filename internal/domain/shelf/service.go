package shelf

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/shared"
	"github.com/xiebiao/readtrack/pkg/metrics"
	"github.com/xiebiao/readtrack/pkg/tracing"
)

const tracerName = "readtrack/shelf"

// BookFinder 图书存在性检查
type BookFinder interface {
	FindByID(ctx context.Context, id uint) (*book.Book, error)
}

// Service 书架维护
// 设计说明:
// 1. 写入统一走原子upsert,(user_id, book_id)唯一索引保证并发首次写入不会产生两条记录
// 2. 读取和写入前先把该用户的旧版记录升级为结构化形式并回写(幂等)
// 3. 删除不存在的记录不是错误
type Service interface {
	// UpsertShelf 设置图书的阅读状态与进度
	UpsertShelf(ctx context.Context, userID, bookID uint, status string, currentPage *int) (*Entry, error)

	// RemoveShelf 从书架移除图书
	RemoveShelf(ctx context.Context, userID, bookID uint) error

	// ListMyShelves 用户的书架,最近更新在前
	ListMyShelves(ctx context.Context, userID uint) ([]*Entry, error)

	// UpgradeLegacy 升级用户的旧版记录,返回升级条数
	UpgradeLegacy(ctx context.Context, userID uint) (int, error)

	// Stats 各状态统计,userID为0时统计全部用户
	Stats(ctx context.Context, userID uint) (Breakdown, error)

	// ShelvedBookIDs 用户书架上的图书ID
	ShelvedBookIDs(ctx context.Context, userID uint) ([]uint, error)

	// RemoveUserShelves 删除用户的全部记录
	RemoveUserShelves(ctx context.Context, userID uint) error

	// RemoveBookShelves 删除图书的全部记录
	RemoveBookShelves(ctx context.Context, bookID uint) error
}

// Option 服务选项
type Option func(*service)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo  Repository
	books BookFinder
	tx    shared.Transactor
	now   func() time.Time
}

// NewService 创建书架服务
func NewService(repo Repository, books BookFinder, tx shared.Transactor, opts ...Option) Service {
	s := &service{repo: repo, books: books, tx: tx, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) UpsertShelf(ctx context.Context, userID, bookID uint, rawStatus string, currentPage *int) (*Entry, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpsertShelf")
	defer span.End()
	span.SetAttributes(attribute.Int64("book_id", int64(bookID)), attribute.String("status", rawStatus))

	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if currentPage != nil && *currentPage < 0 {
		return nil, ErrInvalidProgress
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	var entry *Entry
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.upgrade(ctx, userID); err != nil {
			return err
		}
		if err := s.repo.Upsert(ctx, userID, bookID, status, currentPage, s.now()); err != nil {
			return err
		}
		entry, err = s.repo.Find(ctx, userID, bookID)
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.ShelfUpsertsTotal, map[string]string{"status": string(status)})
	return entry, nil
}

func (s *service) RemoveShelf(ctx context.Context, userID, bookID uint) error {
	_, err := s.repo.Delete(ctx, userID, bookID)
	return err
}

func (s *service) ListMyShelves(ctx context.Context, userID uint) ([]*Entry, error) {
	if _, err := s.UpgradeLegacy(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) UpgradeLegacy(ctx context.Context, userID uint) (int, error) {
	var upgraded int
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		n, err := s.upgrade(ctx, userID)
		upgraded = n
		return err
	})
	return upgraded, err
}

// upgrade 在当前事务内升级旧版记录
func (s *service) upgrade(ctx context.Context, userID uint) (int, error) {
	records, err := s.repo.ListLegacyRecords(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	upgraded := 0
	for _, r := range records {
		entry, changed := r.Normalize(now)
		if !changed {
			continue
		}
		if err := s.repo.SaveNormalized(ctx, entry); err != nil {
			return upgraded, err
		}
		upgraded++
		metrics.IncCounterVec(metrics.ShelfLegacyUpgradesTotal, map[string]string{"kind": string(r.Kind())})
	}

	if upgraded > 0 {
		zap.L().Info("书架旧版记录已升级",
			zap.Uint("user_id", userID),
			zap.Int("count", upgraded),
		)
	}
	return upgraded, nil
}

func (s *service) Stats(ctx context.Context, userID uint) (Breakdown, error) {
	var b Breakdown
	counts, err := s.repo.CountByRawStatus(ctx, userID)
	if err != nil {
		return b, err
	}
	for raw, n := range counts {
		b.Add(raw, n)
	}
	return b, nil
}

func (s *service) ShelvedBookIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.repo.ListBookIDsByUser(ctx, userID)
}

func (s *service) RemoveUserShelves(ctx context.Context, userID uint) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *service) RemoveBookShelves(ctx context.Context, bookID uint) error {
	return s.repo.DeleteByBook(ctx, bookID)
}
