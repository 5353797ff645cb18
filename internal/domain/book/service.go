package book

import (
	"context"
	"time"
	"unicode/utf8"
)

// 推荐数量上限
const (
	SimilarLimit     = 6
	RecommendedLimit = 10
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装图书目录的业务规则校验
// 2. 不涉及评分字段(评分由rating.Aggregator维护)
type Service interface {
	// CreateBook 录入图书
	CreateBook(ctx context.Context, b *Book) error

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书信息
	UpdateBook(ctx context.Context, id uint, params UpdateParams) (*Book, error)

	// DeleteBook 删除图书本身(书评、书架的级联清理由应用层在同一事务内完成)
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListGenres 全部图书类型
	ListGenres(ctx context.Context) ([]string, error)

	// SimilarBooks 相似图书(同作者或类型有交集),最多SimilarLimit本
	SimilarBooks(ctx context.Context, id uint) ([]*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, b *Book) error {
	if err := validate(b); err != nil {
		return err
	}
	b.AverageRating, b.RatingCount = 0, 0
	return s.repo.Create(ctx, b)
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, params UpdateParams) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.ApplyUpdate(params)
	if err := validate(b); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	switch params.SortBy {
	case SortRecent, SortTitle, SortRating:
	default:
		params.SortBy = SortRecent
	}
	return s.repo.List(ctx, params)
}

func (s *service) ListGenres(ctx context.Context) ([]string, error) {
	return s.repo.ListGenres(ctx)
}

func (s *service) SimilarBooks(ctx context.Context, id uint) ([]*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindSimilar(ctx, b, SimilarLimit)
}

// validate 图书字段校验
func validate(b *Book) error {
	if b.Title == "" || utf8.RuneCountInString(b.Title) > 200 {
		return ErrInvalidTitle
	}
	if b.Author == "" || utf8.RuneCountInString(b.Author) > 100 {
		return ErrInvalidAuthor
	}
	// 0表示未知,上限为明年(预售)
	if b.PublicationYear < 0 || b.PublicationYear > time.Now().Year()+1 {
		return ErrInvalidYear
	}
	if b.Pages < 0 {
		return ErrInvalidPages
	}
	return nil
}
