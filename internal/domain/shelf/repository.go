package shelf

import (
	"context"
	"time"
)

// Repository 书架仓储接口
type Repository interface {
	// Upsert 按(userID, bookID)原子地插入或更新
	// currentPage为nil时保留原进度;已存在记录的AddedAt保持不变
	Upsert(ctx context.Context, userID, bookID uint, status Status, currentPage *int, now time.Time) error

	// Find 查找记录(关联图书),不存在返回ErrEntryNotFound
	Find(ctx context.Context, userID, bookID uint) (*Entry, error)

	// ListByUser 用户的全部记录(关联图书),按更新时间倒序
	ListByUser(ctx context.Context, userID uint) ([]*Entry, error)

	// ListLegacyRecords 用户尚未规范化的记录
	ListLegacyRecords(ctx context.Context, userID uint) ([]Record, error)

	// SaveNormalized 回写升级后的记录(不改变UpdatedAt)
	SaveNormalized(ctx context.Context, e Entry) error

	// Delete 删除记录,返回是否确有删除
	Delete(ctx context.Context, userID, bookID uint) (bool, error)

	// DeleteByUser 删除用户的全部记录
	DeleteByUser(ctx context.Context, userID uint) error

	// DeleteByBook 删除图书的全部记录
	DeleteByBook(ctx context.Context, bookID uint) error

	// CountByRawStatus 按原始状态值分组计数,userID为0时统计全部用户
	CountByRawStatus(ctx context.Context, userID uint) (map[string]int64, error)

	// ListBookIDsByUser 用户书架上的图书ID
	ListBookIDsByUser(ctx context.Context, userID uint) ([]uint, error)
}
