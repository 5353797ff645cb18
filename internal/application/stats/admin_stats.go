package stats

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/shelf"
)

// Counter 总数统计
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ShelfStats 书架统计
type ShelfStats interface {
	Stats(ctx context.Context, userID uint) (shelf.Breakdown, error)
}

// AdminStats 管理后台概览
type AdminStats struct {
	Users   int64           `json:"users"`
	Books   int64           `json:"books"`
	Reviews int64           `json:"reviews"`
	Shelves shelf.Breakdown `json:"shelves"`
}

// AdminStatsUseCase 全站统计
type AdminStatsUseCase struct {
	users   Counter
	books   Counter
	reviews Counter
	shelves ShelfStats
}

// NewAdminStatsUseCase 创建统计用例
func NewAdminStatsUseCase(users, books, reviews Counter, shelves ShelfStats) *AdminStatsUseCase {
	return &AdminStatsUseCase{users: users, books: books, reviews: reviews, shelves: shelves}
}

// Execute 汇总用户、图书、书评数与全站书架状态分布
func (uc *AdminStatsUseCase) Execute(ctx context.Context) (*AdminStats, error) {
	var (
		s   AdminStats
		err error
	)
	if s.Users, err = uc.users.Count(ctx); err != nil {
		return nil, err
	}
	if s.Books, err = uc.books.Count(ctx); err != nil {
		return nil, err
	}
	if s.Reviews, err = uc.reviews.Count(ctx); err != nil {
		return nil, err
	}
	// userID为0表示全部用户
	if s.Shelves, err = uc.shelves.Stats(ctx, 0); err != nil {
		return nil, err
	}
	return &s, nil
}
