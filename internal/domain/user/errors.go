package user

import (
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidName 昵称长度不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")

	// ErrAdminUndeletable 管理员不可删除
	ErrAdminUndeletable = apperrors.New(apperrors.ErrCodeAdminUndeletable, "管理员账号不可删除")
)
