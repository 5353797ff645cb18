package book

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/book"
)

// PublishBookUseCase 图书录入用例(管理员)
// 设计说明:
// 1. 字段校验由领域服务负责
// 2. 新书评分字段为0,之后只由评分重算写入
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建录入用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
	}
}

// PublishBookRequest 录入请求
type PublishBookRequest struct {
	Title           string
	Author          string
	Description     string
	CoverImageURL   string
	Genres          []string
	PublicationYear int
	Pages           int
	CreatedBy       uint // 录入者ID(从认证中间件获取)
}

// Execute 执行录入
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	b := book.NewBook(
		req.Title,
		req.Author,
		req.Description,
		req.CoverImageURL,
		req.Genres,
		req.PublicationYear,
		req.Pages,
		req.CreatedBy,
	)
	if err := uc.bookService.CreateBook(ctx, b); err != nil {
		return nil, err
	}
	return ToDTO(b), nil
}
