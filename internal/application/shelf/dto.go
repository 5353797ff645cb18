package shelf

import (
	"time"

	bookapp "github.com/xiebiao/readtrack/internal/application/book"
	"github.com/xiebiao/readtrack/internal/domain/shelf"
)

// EntryDTO 书架记录响应DTO
type EntryDTO struct {
	ID          uint             `json:"id"`
	UserID      uint             `json:"userId"`
	BookID      uint             `json:"bookId"`
	Book        *bookapp.BookDTO `json:"book"`
	Status      string           `json:"status"`
	CurrentPage int              `json:"currentPage"`
	AddedAt     time.Time        `json:"addedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ToDTO 领域实体 → DTO
func ToDTO(e *shelf.Entry) *EntryDTO {
	return &EntryDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		BookID:      e.BookID,
		Book:        bookapp.ToDTO(e.Book),
		Status:      string(e.Status),
		CurrentPage: e.CurrentPage,
		AddedAt:     e.AddedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
