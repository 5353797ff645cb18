package review

import (
	"time"

	"github.com/xiebiao/readtrack/internal/domain/review"
)

// ReviewDTO 书评响应DTO
type ReviewDTO struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"bookId"`
	UserID    uint      `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Likes     []uint    `json:"likes"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDTO 领域实体 → DTO
func ToDTO(r *review.Review) *ReviewDTO {
	likes := r.Likes
	if likes == nil {
		likes = []uint{}
	}
	return &ReviewDTO{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Likes:     likes,
		LikeCount: len(likes),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
