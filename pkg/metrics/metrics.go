// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP指标：请求总数、耗时、处理中的请求数（由middleware.Metrics记录）
//   - 业务指标：书评变更、点赞切换、评分重算、书架写入、旧书架记录升级
//   - 基础设施指标：图书缓存命中、熔断器状态、消息队列收发
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 不要用user_id、book_id等高基数字段作为标签。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/reviews/:reviewId）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// ReviewMutationsTotal 书评变更总数
	// 标签：op（create/update/delete）
	ReviewMutationsTotal *prometheus.CounterVec

	// ReviewLikesToggledTotal 点赞切换总数
	// 标签：action（like/unlike）
	ReviewLikesToggledTotal *prometheus.CounterVec

	// RatingRecomputeTotal 评分重算总数
	// 标签：result（success/failure）
	RatingRecomputeTotal *prometheus.CounterVec

	// RatingRecomputeDuration 评分重算耗时
	RatingRecomputeDuration prometheus.Histogram

	// ShelfUpsertsTotal 书架写入总数
	// 标签：status（WANT_TO_READ/READING/READ）
	ShelfUpsertsTotal *prometheus.CounterVec

	// ShelfLegacyUpgradesTotal 旧格式书架记录升级总数
	// 标签：kind（legacy_ref/legacy_status）
	ShelfLegacyUpgradesTotal *prometheus.CounterVec

	// 基础设施指标

	// BookCacheRequestsTotal 图书详情缓存访问总数
	// 标签：result（hit/miss/error）
	BookCacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，重复调用无副作用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	ReviewMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_review_mutations_total",
			Help: "书评变更总数",
		},
		[]string{"op"},
	)

	ReviewLikesToggledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_review_likes_toggled_total",
			Help: "书评点赞切换总数",
		},
		[]string{"action"},
	)

	RatingRecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_rating_recompute_total",
			Help: "图书评分重算总数",
		},
		[]string{"result"},
	)

	// 重算是单条聚合查询加单行更新，通常在毫秒级
	RatingRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readtrack_rating_recompute_duration_seconds",
			Help:    "图书评分重算耗时（秒）",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	ShelfUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_shelf_upserts_total",
			Help: "书架写入总数",
		},
		[]string{"status"},
	)

	ShelfLegacyUpgradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_shelf_legacy_upgrades_total",
			Help: "旧格式书架记录升级总数",
		},
		[]string{"kind"},
	)

	BookCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readtrack_book_cache_requests_total",
			Help: "图书详情缓存访问总数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
// 未调用InitMetrics时静默跳过（单元测试中领域服务可直接构造）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// AddCounterVec 按增量累加CounterVec
func AddCounterVec(counter *prometheus.CounterVec, labels map[string]string, delta float64) {
	if counter == nil || delta <= 0 {
		return
	}
	counter.With(labels).Add(delta)
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
