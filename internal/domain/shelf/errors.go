package shelf

import (
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// 书架领域错误定义
var (
	// ErrInvalidStatus 状态不是WANT_TO_READ/READING/READ之一
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidShelfStatus, "阅读状态非法")

	// ErrInvalidProgress 阅读进度为负数
	ErrInvalidProgress = apperrors.New(apperrors.ErrCodeInvalidParams, "阅读进度不能为负数")

	// ErrEntryNotFound 书架记录不存在
	ErrEntryNotFound = apperrors.New(apperrors.ErrCodeShelfEntryNotFound, "书架记录不存在")

	// ErrDuplicateEntry 书架记录唯一索引冲突
	ErrDuplicateEntry = apperrors.New(apperrors.ErrCodeDuplicateEntry, "书架记录重复")
)
