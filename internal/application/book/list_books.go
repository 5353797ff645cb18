package book

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、关键词搜索、类型过滤、排序
// 2. 排序方式非法时由领域服务回落到recent
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Search   string // 搜索书名、作者
	Genre    string // 类型
	SortBy   string // title/rating/recent
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []*BookDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Genre:    req.Genre,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		List:     ToDTOs(books),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// ListGenresUseCase 图书类型列表
type ListGenresUseCase struct {
	bookService book.Service
}

// NewListGenresUseCase 创建类型列表用例
func NewListGenresUseCase(bookService book.Service) *ListGenresUseCase {
	return &ListGenresUseCase{bookService: bookService}
}

// Execute 返回去重、升序的类型
func (uc *ListGenresUseCase) Execute(ctx context.Context) ([]string, error) {
	return uc.bookService.ListGenres(ctx)
}
