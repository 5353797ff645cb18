package dto

// UpsertReviewRequest 发表/修改书评请求
// rating的取值范围由领域层校验,这里只要求必填
type UpsertReviewRequest struct {
	Rating  *int    `json:"rating" binding:"required" example:"4"`
	Comment *string `json:"comment" binding:"omitempty,max=2000" example:"值得一读"`
}
