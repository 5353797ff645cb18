package book

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
)

// GetBookUseCase 图书详情(cache-aside)
// 设计说明:
// 1. 先读缓存,未命中回源数据库并回填
// 2. 缓存故障按未命中处理,回填失败只记录日志
// 3. 评分变化、图书更新或删除后缓存被主动删除
type GetBookUseCase struct {
	bookService book.Service
	cache       book.Cache
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, cache book.Cache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err == nil {
		return ToDTO(cached), nil
	}
	if !errors.Is(err, book.ErrCacheMiss) {
		zap.L().Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, b); err != nil {
		zap.L().Warn("回填图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	return ToDTO(b), nil
}

// SimilarBooksUseCase 相似图书
type SimilarBooksUseCase struct {
	bookService book.Service
}

// NewSimilarBooksUseCase 创建相似图书用例
func NewSimilarBooksUseCase(bookService book.Service) *SimilarBooksUseCase {
	return &SimilarBooksUseCase{bookService: bookService}
}

// Execute 同作者或类型有交集的图书,评分高的在前
func (uc *SimilarBooksUseCase) Execute(ctx context.Context, id uint) ([]*BookDTO, error) {
	books, err := uc.bookService.SimilarBooks(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDTOs(books), nil
}
