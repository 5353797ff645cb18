package dto

// RegisterRequest HTTP层注册请求
type RegisterRequest struct {
	Email           string   `json:"email" binding:"required,email" example:"reader@example.com"`
	Password        string   `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	Name            string   `json:"name" binding:"required,min=2,max=50" example:"Reader"`
	FavouriteGenres []string `json:"favouriteGenres" binding:"omitempty,max=20,dive,max=50"`
}

// UpdateProfileRequest 修改个人资料请求,未提供的字段保持不变
type UpdateProfileRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=2,max=50" example:"Reader"`
	FavouriteGenres []string `json:"favouriteGenres" binding:"omitempty,max=20,dive,max=50"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 换发Access Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ListUsersRequest 用户列表请求
type ListUsersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}
