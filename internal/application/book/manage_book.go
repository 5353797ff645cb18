package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/shared"
)

// UpdateBookUseCase 更新图书信息(管理员)
// 基本信息与类型(先删后插)在同一事务内写入
type UpdateBookUseCase struct {
	tx          shared.Transactor
	bookService book.Service
	cache       book.Cache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(tx shared.Transactor, bookService book.Service, cache book.Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{tx: tx, bookService: bookService, cache: cache}
}

// Execute 更新并删除详情缓存
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, params book.UpdateParams) (*BookDTO, error) {
	var b *book.Book
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.bookService.UpdateBook(ctx, id, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, id)
	return ToDTO(b), nil
}

// ReviewRemover 删除图书的书评
type ReviewRemover interface {
	RemoveBookReviews(ctx context.Context, bookID uint) error
}

// ShelfRemover 删除图书的书架记录
type ShelfRemover interface {
	RemoveBookShelves(ctx context.Context, bookID uint) error
}

// DeleteBookUseCase 删除图书(管理员)
// 设计说明:
// 1. 图书、书评(含点赞)、书架记录在同一事务内删除
// 2. 事务提交后删除详情缓存
type DeleteBookUseCase struct {
	tx          shared.Transactor
	bookService book.Service
	reviews     ReviewRemover
	shelves     ShelfRemover
	cache       book.Cache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	tx shared.Transactor,
	bookService book.Service,
	reviews ReviewRemover,
	shelves ShelfRemover,
	cache book.Cache,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		tx:          tx,
		bookService: bookService,
		reviews:     reviews,
		shelves:     shelves,
		cache:       cache,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.bookService.GetBook(ctx, id); err != nil {
			return err
		}
		if err := uc.reviews.RemoveBookReviews(ctx, id); err != nil {
			return err
		}
		if err := uc.shelves.RemoveBookShelves(ctx, id); err != nil {
			return err
		}
		return uc.bookService.DeleteBook(ctx, id)
	})
	if err != nil {
		return err
	}

	invalidate(ctx, uc.cache, id)
	zap.L().Info("图书已删除", zap.Uint("book_id", id))
	return nil
}

func invalidate(ctx context.Context, cache book.Cache, id uint) {
	if err := cache.Invalidate(ctx, id); err != nil {
		zap.L().Warn("删除图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
}
