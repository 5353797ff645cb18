// Package router 组装Gin引擎:全局中间件与/api/v1路由
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/interface/http/handler"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
	"github.com/xiebiao/readtrack/pkg/response"
)

// Options 路由选项
type Options struct {
	Mode           string        // debug | release | test
	SlowThreshold  time.Duration // 慢请求告警阈值
	MetricsEnabled bool
	MetricsPath    string
	SwaggerEnabled bool
}

// Handlers 全部HTTP处理器
type Handlers struct {
	User   *handler.UserHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
	Shelf  *handler.ShelfHandler
	Admin  *handler.AdminHandler
}

// New 创建并配置Gin引擎
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, logger *zap.Logger) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.Logger(logger, opts.SlowThreshold),
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			logger.Error("请求处理panic",
				zap.Any("panic", recovered),
				zap.String("path", c.Request.URL.Path),
			)
			response.ErrorWithCode(c, apperrors.ErrCodeInternal, "服务器内部错误")
			c.Abort()
		}),
		middleware.Tracing(),
	)
	if opts.MetricsEnabled {
		r.Use(middleware.Metrics())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 访问 /swagger/index.html 查看API文档
	if opts.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	registerUserRoutes(v1, h, auth)
	registerBookRoutes(v1, h.Book, auth)
	registerReviewRoutes(v1, h.Review, auth)
	registerShelfRoutes(v1, h.Shelf, auth)

	admin := v1.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.GET("/stats", h.Admin.Stats)
	}
	return r
}

func registerUserRoutes(v1 *gin.RouterGroup, h Handlers, auth *middleware.AuthMiddleware) {
	users := v1.Group("/users")
	{
		// 公开接口
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.RefreshToken)

		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		users.GET("/me", auth.RequireAuth(), h.User.Me)
		users.PUT("/me", auth.RequireAuth(), h.User.UpdateMe)

		// 管理员
		users.GET("", auth.RequireAuth(), auth.RequireAdmin(), h.Admin.ListUsers)
		users.DELETE("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Admin.DeleteUser)
	}
}

func registerBookRoutes(v1 *gin.RouterGroup, h *handler.BookHandler, auth *middleware.AuthMiddleware) {
	books := v1.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/genres", h.ListGenres)
		books.GET("/me/recommended", auth.RequireAuth(), h.Recommended)
		books.GET("/:id", h.GetBook)
		books.GET("/:id/similar", h.SimilarBooks)

		books.POST("", auth.RequireAuth(), auth.RequireAdmin(), h.CreateBook)
		books.PUT("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.UpdateBook)
		books.DELETE("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.DeleteBook)
	}
}

func registerReviewRoutes(v1 *gin.RouterGroup, h *handler.ReviewHandler, auth *middleware.AuthMiddleware) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("/book/:bookId", h.ListReviews)
		reviews.POST("/book/:bookId", auth.RequireAuth(), h.UpsertReview)
		reviews.DELETE("/:reviewId", auth.RequireAuth(), h.DeleteReview)
		reviews.POST("/:reviewId/like", auth.RequireAuth(), h.ToggleLike)
	}
}

func registerShelfRoutes(v1 *gin.RouterGroup, h *handler.ShelfHandler, auth *middleware.AuthMiddleware) {
	shelves := v1.Group("/shelves", auth.RequireAuth())
	{
		shelves.GET("/my", h.ListMyShelves)
		shelves.GET("/stats", h.Stats)
		shelves.POST("/:bookId", h.UpsertShelf)
		shelves.DELETE("/:bookId", h.RemoveShelf)
	}
}
