package book

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/user"
)

// ShelfReader 用户书架上的图书
type ShelfReader interface {
	ShelvedBookIDs(ctx context.Context, userID uint) ([]uint, error)
}

// RecommendBooksUseCase 个性化推荐
// 设计说明:
// 1. 兴趣类型 = 用户喜爱的类型 ∪ 书架上图书的类型
// 2. 排除已在书架上的图书,按评分降序取前RecommendedLimit本
// 3. 没有任何兴趣类型时退化为全站评分最高的图书
type RecommendBooksUseCase struct {
	books       book.Repository
	bookService book.Service
	users       user.Service
	shelves     ShelfReader
}

// NewRecommendBooksUseCase 创建推荐用例
func NewRecommendBooksUseCase(books book.Repository, bookService book.Service, users user.Service, shelves ShelfReader) *RecommendBooksUseCase {
	return &RecommendBooksUseCase{
		books:       books,
		bookService: bookService,
		users:       users,
		shelves:     shelves,
	}
}

// Execute 为用户推荐图书
func (uc *RecommendBooksUseCase) Execute(ctx context.Context, userID uint) ([]*BookDTO, error) {
	u, err := uc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	shelved, err := uc.shelves.ShelvedBookIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	shelvedBooks, err := uc.books.FindByIDs(ctx, shelved)
	if err != nil {
		return nil, err
	}

	genres := append([]string{}, u.FavouriteGenres...)
	for _, b := range shelvedBooks {
		genres = append(genres, b.Genres...)
	}
	genres = book.NormalizeGenres(genres)

	if len(genres) > 0 {
		picked, err := uc.books.FindByGenres(ctx, genres, shelved, book.RecommendedLimit)
		if err != nil {
			return nil, err
		}
		return ToDTOs(picked), nil
	}

	top, _, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     1,
		PageSize: book.RecommendedLimit + len(shelved),
		SortBy:   book.SortRating,
	})
	if err != nil {
		return nil, err
	}
	return ToDTOs(excluding(top, shelved, book.RecommendedLimit)), nil
}

func excluding(books []*book.Book, ids []uint, limit int) []*book.Book {
	skip := make(map[uint]bool, len(ids))
	for _, id := range ids {
		skip[id] = true
	}
	result := make([]*book.Book, 0, limit)
	for _, b := range books {
		if len(result) == limit {
			break
		}
		if !skip[b.ID] {
			result = append(result, b)
		}
	}
	return result
}
