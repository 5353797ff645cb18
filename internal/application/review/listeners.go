package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/review"
)

// RoutingKeyReviewChanged 书评变更事件的路由键
const RoutingKeyReviewChanged = "review.changed"

// CacheInvalidator 评分变化后删除图书详情缓存
type CacheInvalidator struct {
	cache book.Cache
}

// NewCacheInvalidator 创建缓存失效监听者
func NewCacheInvalidator(cache book.Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// ReviewChanged 实现review.Listener
func (l *CacheInvalidator) ReviewChanged(ctx context.Context, c review.Change) {
	if err := l.cache.Invalidate(ctx, c.BookID); err != nil {
		zap.L().Warn("删除图书缓存失败", zap.Uint("book_id", c.BookID), zap.Error(err))
	}
}

// Publisher 消息发布
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// ReviewChangedEvent review.changed事件体
type ReviewChangedEvent struct {
	Op            string    `json:"op"`
	BookID        uint      `json:"bookId"`
	ReviewID      uint      `json:"reviewId"`
	UserID        uint      `json:"userId"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int64     `json:"ratingCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// EventPublisher 把已提交的书评变更发布到消息队列
// 发布失败只记录日志,不影响已提交的写入
type EventPublisher struct {
	publisher Publisher
	now       func() time.Time
}

// NewEventPublisher 创建事件发布监听者
func NewEventPublisher(publisher Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher, now: time.Now}
}

// ReviewChanged 实现review.Listener
func (l *EventPublisher) ReviewChanged(ctx context.Context, c review.Change) {
	event := ReviewChangedEvent{
		Op:            string(c.Op),
		BookID:        c.BookID,
		ReviewID:      c.ReviewID,
		UserID:        c.UserID,
		AverageRating: c.Summary.Average,
		RatingCount:   c.Summary.Count,
		OccurredAt:    l.now(),
	}
	if err := l.publisher.Publish(ctx, RoutingKeyReviewChanged, event); err != nil {
		zap.L().Warn("发布书评变更事件失败",
			zap.Uint("review_id", c.ReviewID),
			zap.String("op", string(c.Op)),
			zap.Error(err),
		)
	}
}
