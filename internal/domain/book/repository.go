package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层(GORM仓储,MySQL与SQLite共用)实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找,不存在的ID被忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 更新图书基本信息(不写评分字段)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListGenres 所有出现过的图书类型(去重、升序)
	ListGenres(ctx context.Context) ([]string, error)

	// FindSimilar 同作者或类型有交集的其他图书,按评分降序
	FindSimilar(ctx context.Context, b *Book, limit int) ([]*Book, error)

	// FindByGenres 属于任一类型且不在excludeIDs中的图书,按评分降序
	FindByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]*Book, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 书评写入与评分重算前锁定图书行,串行化同一本书的并发重算
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateRating 写入评分汇总(仅供rating.Aggregator调用)
	UpdateRating(ctx context.Context, id uint, average float64, count int64) error

	// Count 图书总数
	Count(ctx context.Context) (int64, error)
}

// 排序方式
const (
	SortRecent = "recent" // 最新录入(默认)
	SortTitle  = "title"  // 书名升序
	SortRating = "rating" // 平均分降序
)

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Search   string // 搜索书名、作者
	Genre    string // 按类型过滤
	SortBy   string // recent/title/rating
}

// Cache 图书详情缓存(cache-aside)
// Get未命中返回ErrCacheMiss
type Cache interface {
	Get(ctx context.Context, id uint) (*Book, error)
	Set(ctx context.Context, b *Book) error
	Invalidate(ctx context.Context, id uint) error
}

// NopCache 不缓存(未启用Redis时使用)
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (*Book, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, *Book) error         { return nil }
func (NopCache) Invalidate(context.Context, uint) error   { return nil }
