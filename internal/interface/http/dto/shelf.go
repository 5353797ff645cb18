package dto

// UpsertShelfRequest 设置阅读状态请求
type UpsertShelfRequest struct {
	Status      string `json:"status" binding:"required,shelf_status" example:"READING"`
	CurrentPage *int   `json:"currentPage" binding:"omitempty,min=0" example:"120"`
}
