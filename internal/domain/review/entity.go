package review

import (
	"time"
)

// 评分取值范围
const (
	MinRating = 1
	MaxRating = 5
)

// Review 书评实体
// 设计说明:
// 1. 每个(BookID, UserID)至多一条书评,由数据库唯一索引保证
// 2. UserName、Likes在读取时填充,不属于书评行本身
// 3. Rating变化会触发所属图书的评分重算
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	UserName  string // 作者昵称(读取时关联users表)
	Rating    int
	Comment   string
	Likes     []uint // 点赞用户ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateRating 评分必须是[1,5]内的整数
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// IsOwnedBy 是否为该用户所写
func (r *Review) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}

// CanBeDeletedBy 作者本人或管理员可删除
func (r *Review) CanBeDeletedBy(userID uint, isAdmin bool) bool {
	return isAdmin || r.IsOwnedBy(userID)
}

// LikedBy 该用户是否已点赞
func (r *Review) LikedBy(userID uint) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
