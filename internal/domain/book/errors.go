package book

import (
	"errors"

	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidTitle 书名为空或过长
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空且不超过200个字符")

	// ErrInvalidAuthor 作者为空或过长
	ErrInvalidAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空且不超过100个字符")

	// ErrInvalidYear 出版年份不合法
	ErrInvalidYear = apperrors.New(apperrors.ErrCodeInvalidParams, "出版年份不合法")

	// ErrInvalidPages 页数不合法
	ErrInvalidPages = apperrors.New(apperrors.ErrCodeInvalidParams, "页数不能为负数")

	// ErrInvalidRatingSummary 评分汇总违反不变量(只可能来自程序错误)
	ErrInvalidRatingSummary = apperrors.New(apperrors.ErrCodeInternal, "评分汇总数据非法")
)

// ErrCacheMiss 缓存未命中(不是故障)
var ErrCacheMiss = errors.New("book cache miss")
