package dto

// CreateBookRequest HTTP录入图书请求
type CreateBookRequest struct {
	Title           string   `json:"title" binding:"required,max=200" example:"The Left Hand of Darkness"`
	Author          string   `json:"author" binding:"required,max=100" example:"Ursula K. Le Guin"`
	Description     string   `json:"description" binding:"max=5000"`
	CoverImageURL   string   `json:"coverImageUrl" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Genres          []string `json:"genres" binding:"omitempty,max=20,dive,max=50" example:"Sci-Fi"`
	PublicationYear int      `json:"publicationYear" binding:"min=0" example:"1969"`
	Pages           int      `json:"pages" binding:"min=0" example:"304"`
}

// UpdateBookRequest HTTP更新图书请求(字段缺省表示不修改)
type UpdateBookRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Author          *string  `json:"author" binding:"omitempty,min=1,max=100"`
	Description     *string  `json:"description" binding:"omitempty,max=5000"`
	CoverImageURL   *string  `json:"coverImageUrl" binding:"omitempty,max=500"`
	Genres          []string `json:"genres" binding:"omitempty,max=20,dive,max=50"`
	PublicationYear *int     `json:"publicationYear" binding:"omitempty,min=0"`
	Pages           *int     `json:"pages" binding:"omitempty,min=0"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100" example:"20"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Genre    string `form:"genre" binding:"omitempty,max=50"`
	Sort     string `form:"sort" binding:"omitempty,oneof=title rating recent" example:"rating"`
}
