// Package rating 图书评分汇总
//
// Aggregator是Book.AverageRating/RatingCount的唯一写入方。
// 每次书评新增、修改、删除后都从书评集合全量重算(COUNT + SUM),不做增量更新:
// 任何一次重算都反映某一时刻书评集合的一致快照,并发写入后最后一次重算即为正确值。
package rating

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/readtrack/pkg/metrics"
	"github.com/xiebiao/readtrack/pkg/tracing"
)

const tracerName = "readtrack/rating"

// Summary 某本书的评分汇总
type Summary struct {
	Count   int64
	Sum     int64
	Average float64
}

// ReviewStats 书评统计读取
type ReviewStats interface {
	// RatingStats 返回图书现存书评的条数与评分之和
	RatingStats(ctx context.Context, bookID uint) (count int64, sum int64, err error)
}

// BookWriter 图书评分写入
type BookWriter interface {
	UpdateRating(ctx context.Context, bookID uint, average float64, count int64) error
}

// Aggregator 评分重算器
type Aggregator struct {
	reviews ReviewStats
	books   BookWriter
}

// NewAggregator 创建评分重算器
func NewAggregator(reviews ReviewStats, books BookWriter) *Aggregator {
	return &Aggregator{reviews: reviews, books: books}
}

// Recompute 重算并写回图书评分
// 在调用方事务内执行时(ctx携带事务),读取与写入都参与该事务
func (a *Aggregator) Recompute(ctx context.Context, bookID uint) (Summary, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Recompute")
	defer span.End()
	span.SetAttributes(attribute.Int64("book_id", int64(bookID)))

	start := time.Now()
	summary, err := a.recompute(ctx, bookID)
	metrics.ObserveHistogram(metrics.RatingRecomputeDuration, time.Since(start).Seconds())

	if err != nil {
		tracing.RecordError(span, err)
		metrics.IncCounterVec(metrics.RatingRecomputeTotal, map[string]string{"result": "failure"})
		return Summary{}, err
	}

	span.SetAttributes(
		attribute.Int64("rating.count", summary.Count),
		attribute.Float64("rating.average", summary.Average),
	)
	metrics.IncCounterVec(metrics.RatingRecomputeTotal, map[string]string{"result": "success"})
	return summary, nil
}

func (a *Aggregator) recompute(ctx context.Context, bookID uint) (Summary, error) {
	count, sum, err := a.reviews.RatingStats(ctx, bookID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Count: count, Sum: sum, Average: Mean(count, sum)}
	if err := a.books.UpdateRating(ctx, bookID, summary.Average, summary.Count); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Mean 算术平均值,count为0时返回0
func Mean(count, sum int64) float64 {
	if count <= 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
