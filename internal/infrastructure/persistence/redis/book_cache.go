package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
	"github.com/xiebiao/readtrack/pkg/metrics"
)

// BookCache 图书详情缓存(cache-aside)
// 设计说明:
// 1. Key: readtrack:book:{id},值为JSON,带TTL
// 2. 所有Redis访问经过熔断器,Redis故障时Get按未命中处理,读请求回源数据库
// 3. 评分重算后由书评监听者调用Invalidate
type BookCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration, breakerTimeout time.Duration) *BookCache {
	breaker := circuitbreaker.NewCircuitBreaker("redis-book-cache", circuitbreaker.Config{
		Timeout: breakerTimeout,
		// 未命中不是故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, book.ErrCacheMiss)
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		zap.L().Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})
	return &BookCache{client: client, ttl: ttl, breaker: breaker}
}

// Get 读取缓存,未命中返回book.ErrCacheMiss
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	var b book.Book
	err := c.breaker.Execute(func() error {
		data, err := c.client.Get(ctx, bookKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return book.ErrCacheMiss
		}
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &b)
	})

	switch {
	case err == nil:
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "hit"})
		return &b, nil
	case errors.Is(err, book.ErrCacheMiss):
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "miss"})
		return nil, book.ErrCacheMiss
	default:
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "error"})
		zap.L().Warn("读取图书缓存失败,回源数据库", zap.Uint("book_id", id), zap.Error(err))
		return nil, book.ErrCacheMiss
	}
}

// Set 写入缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return apperrors.Wrap(err, "序列化图书失败")
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, bookKey(b.ID), data, c.ttl).Err()
	})
	if err != nil {
		return apperrors.WrapRedis(err, "写入图书缓存失败")
	}
	return nil
}

// Invalidate 删除缓存
func (c *BookCache) Invalidate(ctx context.Context, id uint) error {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, bookKey(id)).Err()
	})
	if err != nil {
		return apperrors.WrapRedis(err, "删除图书缓存失败")
	}
	return nil
}

func bookKey(id uint) string {
	return fmt.Sprintf("readtrack:book:%d", id)
}
