package review

import (
	"context"
)

// UpsertParams 书评写入参数
type UpsertParams struct {
	BookID  uint
	UserID  uint
	Rating  int
	Comment *string // nil:新建时为空串,更新时保留原评论
}

// Repository 书评仓储接口
type Repository interface {
	// Upsert 按(BookID, UserID)原子地插入或更新(INSERT ... ON DUPLICATE KEY UPDATE)
	Upsert(ctx context.Context, params UpsertParams) error

	// FindByID 查找书评(填充UserName、Likes),不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// FindByBookAndUser 查找某用户对某本书的书评,不存在返回ErrReviewNotFound
	FindByBookAndUser(ctx context.Context, bookID, userID uint) (*Review, error)

	// ListByBook 图书的全部书评,按创建时间倒序
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// Delete 删除书评及其点赞,不存在返回ErrReviewNotFound
	Delete(ctx context.Context, id uint) error

	// ToggleLike 切换点赞,返回切换后是否处于已点赞状态
	ToggleLike(ctx context.Context, reviewID, userID uint) (liked bool, err error)

	// RatingStats 图书现存书评的条数与评分之和
	RatingStats(ctx context.Context, bookID uint) (count int64, sum int64, err error)

	// LockByID 行锁锁定书评,不存在返回ErrReviewNotFound;须在事务内调用
	LockByID(ctx context.Context, id uint) error

	// LockBookIDsByUser 锁定用户的全部书评并返回图书ID(升序);须在事务内调用
	LockBookIDsByUser(ctx context.Context, userID uint) ([]uint, error)

	// DeleteByUser 删除用户的全部书评(连同这些书评的点赞)以及该用户给出的点赞
	DeleteByUser(ctx context.Context, userID uint) error

	// DeleteByBook 删除图书的全部书评及点赞
	DeleteByBook(ctx context.Context, bookID uint) error

	// Count 书评总数
	Count(ctx context.Context) (int64, error)
}
