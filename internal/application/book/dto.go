package book

import (
	"time"

	"github.com/xiebiao/readtrack/internal/domain/book"
)

// BookDTO 图书响应DTO
type BookDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	CoverImageURL   string    `json:"coverImageUrl"`
	Genres          []string  `json:"genres"`
	PublicationYear int       `json:"publicationYear"`
	Pages           int       `json:"pages"`
	AverageRating   float64   `json:"averageRating"`
	RatingCount     int64     `json:"ratingCount"`
	CreatedBy       uint      `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToDTO 领域实体 → DTO
func ToDTO(b *book.Book) *BookDTO {
	if b == nil {
		return nil
	}
	genres := b.Genres
	if genres == nil {
		genres = []string{}
	}
	return &BookDTO{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImageURL:   b.CoverImageURL,
		Genres:          genres,
		PublicationYear: b.PublicationYear,
		Pages:           b.Pages,
		AverageRating:   b.AverageRating,
		RatingCount:     b.RatingCount,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToDTOs 批量转换
func ToDTOs(books []*book.Book) []*BookDTO {
	list := make([]*BookDTO, len(books))
	for i, b := range books {
		list[i] = ToDTO(b)
	}
	return list
}
