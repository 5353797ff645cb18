package user

import (
	"strings"
	"time"
)

// User 用户实体(聚合根)
// 设计说明:
// 1. Password保存bcrypt哈希,不对外暴露
// 2. FavouriteGenres用于图书推荐
// 3. 书评、书架只以ID引用用户,删除用户时由应用层级联清理
type User struct {
	ID              uint
	Email           string
	Password        string // bcrypt哈希值
	Name            string
	IsAdmin         bool
	IsVerified      bool
	FavouriteGenres []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name string, favouriteGenres []string) *User {
	now := time.Now()
	return &User{
		Email:           strings.ToLower(strings.TrimSpace(email)),
		Password:        hashedPassword,
		Name:            strings.TrimSpace(name),
		FavouriteGenres: favouriteGenres,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CheckDeletable 管理员账号不可删除
func (u *User) CheckDeletable() error {
	if u.IsAdmin {
		return ErrAdminUndeletable
	}
	return nil
}
