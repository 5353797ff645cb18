package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/readtrack/internal/application/review"
	"github.com/xiebiao/readtrack/internal/interface/http/dto"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	"github.com/xiebiao/readtrack/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	upsertReview *appreview.UpsertReviewUseCase
	deleteReview *appreview.DeleteReviewUseCase
	listReviews  *appreview.ListReviewsUseCase
	toggleLike   *appreview.ToggleLikeUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(
	upsertReview *appreview.UpsertReviewUseCase,
	deleteReview *appreview.DeleteReviewUseCase,
	listReviews *appreview.ListReviewsUseCase,
	toggleLike *appreview.ToggleLikeUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		upsertReview: upsertReview,
		deleteReview: deleteReview,
		listReviews:  listReviews,
		toggleLike:   toggleLike,
	}
}

// UpsertReview 发表或修改书评
// @Summary      发表/修改书评
// @Description  每个用户对同一本书只有一条书评,重复提交即修改;省略comment时保留原评论
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Param        request body dto.UpsertReviewRequest true "评分与评论"
// @Success      201 {object} response.Response{data=appreview.ReviewDTO} "新建"
// @Success      200 {object} response.Response{data=appreview.ReviewDTO} "更新"
// @Failure      400 {object} response.Response "评分非法或图书不存在"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/reviews/book/{bookId} [post]
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var req dto.UpsertReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, created, err := h.upsertReview.Execute(c.Request.Context(), appreview.UpsertReviewRequest{
		BookID:  bookID,
		UserID:  middleware.MustGetUserID(c),
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// ListReviews 图书的书评
// @Summary      书评列表
// @Tags         书评
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=[]appreview.ReviewDTO}
// @Router       /api/v1/reviews/book/{bookId} [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	list, err := h.listReviews.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteReview 删除书评
// @Summary      删除书评
// @Description  仅作者或管理员可删除
// @Tags         书评
// @Produce      json
// @Security     BearerAuth
// @Param        reviewId path int true "书评ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "书评不存在"
// @Router       /api/v1/reviews/{reviewId} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "reviewId")
	if !ok {
		return
	}
	err := h.deleteReview.Execute(c.Request.Context(), reviewID, middleware.MustGetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "书评已删除")
}

// ToggleLike 点赞/取消点赞
// @Summary      点赞切换
// @Tags         书评
// @Produce      json
// @Security     BearerAuth
// @Param        reviewId path int true "书评ID"
// @Success      200 {object} response.Response{data=appreview.ReviewDTO}
// @Failure      404 {object} response.Response "书评不存在"
// @Router       /api/v1/reviews/{reviewId}/like [post]
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	reviewID, ok := pathID(c, "reviewId")
	if !ok {
		return
	}
	result, err := h.toggleLike.Execute(c.Request.Context(), reviewID, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
