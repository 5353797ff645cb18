package user

import (
	"time"

	"github.com/xiebiao/readtrack/internal/domain/user"
)

// UserInfo 用户信息(不含密码)
type UserInfo struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	IsAdmin         bool      `json:"isAdmin"`
	IsVerified      bool      `json:"isVerified"`
	FavouriteGenres []string  `json:"favouriteGenres"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToUserInfo 领域实体 → DTO
func ToUserInfo(u *user.User) UserInfo {
	genres := u.FavouriteGenres
	if genres == nil {
		genres = []string{}
	}
	return UserInfo{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		IsAdmin:         u.IsAdmin,
		IsVerified:      u.IsVerified,
		FavouriteGenres: genres,
		CreatedAt:       u.CreatedAt,
	}
}
