package review

import (
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// 书评领域错误定义
var (
	// ErrInvalidRating 评分不在[1,5]范围内
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "评分必须是1到5之间的整数")

	// ErrBookUnresolvable 书评指向的图书不存在(按参数错误处理)
	ErrBookUnresolvable = apperrors.New(apperrors.ErrCodeInvalidParams, "图书不存在,无法评价")

	// ErrReviewNotFound 书评不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "书评不存在")

	// ErrForbidden 非作者且非管理员
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权删除该书评")

	// ErrDuplicateReview 写入书评时触发(book_id,user_id)以外的唯一索引冲突
	ErrDuplicateReview = apperrors.New(apperrors.ErrCodeReviewDuplicate, "已评价过该图书")
)
