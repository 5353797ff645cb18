package review

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/review"
)

// UpsertReviewUseCase 发表或修改书评
// 设计说明:
// 1. 每个用户对同一本书只有一条书评,重复提交即修改
// 2. 书评写入与评分重算的事务由领域服务负责
type UpsertReviewUseCase struct {
	reviewService review.Service
}

// NewUpsertReviewUseCase 创建书评写入用例
func NewUpsertReviewUseCase(reviewService review.Service) *UpsertReviewUseCase {
	return &UpsertReviewUseCase{reviewService: reviewService}
}

// UpsertReviewRequest 书评写入请求
type UpsertReviewRequest struct {
	BookID  uint
	UserID  uint
	Rating  int
	Comment *string // nil表示不修改已有评论
}

// Execute 返回保存后的书评,created表示是否新建
func (uc *UpsertReviewUseCase) Execute(ctx context.Context, req UpsertReviewRequest) (*ReviewDTO, bool, error) {
	r, created, err := uc.reviewService.UpsertReview(ctx, req.BookID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		return nil, false, err
	}
	return ToDTO(r), created, nil
}

// DeleteReviewUseCase 删除书评(作者或管理员)
type DeleteReviewUseCase struct {
	reviewService review.Service
}

// NewDeleteReviewUseCase 创建删除用例
func NewDeleteReviewUseCase(reviewService review.Service) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{reviewService: reviewService}
}

// Execute 执行删除
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, reviewID, requesterID uint, requesterIsAdmin bool) error {
	return uc.reviewService.DeleteReview(ctx, reviewID, requesterID, requesterIsAdmin)
}
