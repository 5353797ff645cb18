package user

import (
	"context"
)

// Repository 用户仓储接口
// 接口定义在domain层,具体实现在infrastructure/persistence层
type Repository interface {
	// Create 创建用户
	// 邮箱已存在时返回errors.ErrEmailDuplicate(由唯一索引判定)
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户,不存在返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户,不存在返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 保存昵称、偏好类型与角色标记(不修改邮箱和密码)
	Update(ctx context.Context, user *User) error

	// List 分页查询,按注册时间倒序
	List(ctx context.Context, page, pageSize int) ([]*User, int64, error)

	// Delete 删除用户
	Delete(ctx context.Context, id uint) error

	// Count 用户总数
	Count(ctx context.Context) (int64, error)
}
