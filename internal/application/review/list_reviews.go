package review

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/review"
)

// ListReviewsUseCase 图书书评列表
type ListReviewsUseCase struct {
	reviewService review.Service
}

// NewListReviewsUseCase 创建列表用例
func NewListReviewsUseCase(reviewService review.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviewService: reviewService}
}

// Execute 最新的书评在前
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID uint) ([]*ReviewDTO, error) {
	reviews, err := uc.reviewService.ListReviewsForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	list := make([]*ReviewDTO, len(reviews))
	for i, r := range reviews {
		list[i] = ToDTO(r)
	}
	return list, nil
}

// ToggleLikeUseCase 点赞/取消点赞
type ToggleLikeUseCase struct {
	reviewService review.Service
}

// NewToggleLikeUseCase 创建点赞用例
func NewToggleLikeUseCase(reviewService review.Service) *ToggleLikeUseCase {
	return &ToggleLikeUseCase{reviewService: reviewService}
}

// Execute 已点赞则取消,否则点赞
func (uc *ToggleLikeUseCase) Execute(ctx context.Context, reviewID, userID uint) (*ReviewDTO, error) {
	r, err := uc.reviewService.ToggleLike(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	return ToDTO(r), nil
}
