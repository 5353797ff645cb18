//go:build wireinject
// +build wireinject

// Wire依赖注入配置(MySQL + Redis部署形态)
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go;main.go中的newApp是同一依赖图的手写版本,
// 额外支持sqlite驱动与关闭Redis。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/readtrack/internal/application/book"
	appreview "github.com/xiebiao/readtrack/internal/application/review"
	appshelf "github.com/xiebiao/readtrack/internal/application/shelf"
	"github.com/xiebiao/readtrack/internal/application/stats"
	appuser "github.com/xiebiao/readtrack/internal/application/user"
	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/rating"
	"github.com/xiebiao/readtrack/internal/domain/review"
	"github.com/xiebiao/readtrack/internal/domain/shared"
	"github.com/xiebiao/readtrack/internal/domain/shelf"
	"github.com/xiebiao/readtrack/internal/domain/user"
	"github.com/xiebiao/readtrack/internal/infrastructure/config"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readtrack/internal/interface/http/handler"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	"github.com/xiebiao/readtrack/internal/interface/http/router"
	"github.com/xiebiao/readtrack/pkg/jwt"
)

// infrastructureSet 数据库、Redis连接
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	mysql.NewTxManager,
	wire.Bind(new(shared.Transactor), new(*mysql.TxManager)),
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewReviewRepository,
	mysql.NewShelfRepository,
	provideBookCache,
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
	provideAggregator,
	provideReviewService,
	provideShelfService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateProfileUseCase,
	appuser.NewListUsersUseCase,
	appuser.NewDeleteUserUseCase,
	provideUserCleanup,

	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewListGenresUseCase,
	appbook.NewSimilarBooksUseCase,
	provideDeleteBook,
	provideRecommendBooks,

	appreview.NewUpsertReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appreview.NewListReviewsUseCase,
	appreview.NewToggleLikeUseCase,

	appshelf.NewUpsertShelfUseCase,
	appshelf.NewRemoveShelfUseCase,
	appshelf.NewListMyShelvesUseCase,
	appshelf.NewShelfStatsUseCase,

	provideAdminStats,
)

// handlerSet HTTP处理器与中间件
var handlerSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	handler.NewShelfHandler,
	handler.NewAdminHandler,
	wire.Struct(new(router.Handlers), "*"),
	routerOptions,
	router.New,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideBookCache(cfg *config.Config, client *goredis.Client) book.Cache {
	return redis.NewBookCache(client, cfg.Cache.BookTTL, cfg.Cache.BreakerTimeout)
}

// provideUserService user.NewService带可变选项参数,Wire无法直接使用
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

func provideAggregator(reviews review.Repository, books book.Repository) *rating.Aggregator {
	return rating.NewAggregator(reviews, books)
}

// provideReviewService 书评写入提交后删除图书缓存
func provideReviewService(repo review.Repository, books book.Repository, aggregator *rating.Aggregator, tx shared.Transactor, cache book.Cache) review.Service {
	return review.NewService(repo, books, aggregator, tx, appreview.NewCacheInvalidator(cache))
}

func provideShelfService(repo shelf.Repository, books book.Repository, tx shared.Transactor) shelf.Service {
	return shelf.NewService(repo, books, tx)
}

func provideUserCleanup(tx shared.Transactor, users user.Repository, reviews review.Service, shelves shelf.Service, cache book.Cache) *appuser.UserCleanupUseCase {
	return appuser.NewUserCleanupUseCase(tx, users, reviews, shelves, cache)
}

func provideDeleteBook(tx shared.Transactor, books book.Service, reviews review.Service, shelves shelf.Service, cache book.Cache) *appbook.DeleteBookUseCase {
	return appbook.NewDeleteBookUseCase(tx, books, reviews, shelves, cache)
}

func provideRecommendBooks(repo book.Repository, books book.Service, users user.Service, shelves shelf.Service) *appbook.RecommendBooksUseCase {
	return appbook.NewRecommendBooksUseCase(repo, books, users, shelves)
}

// provideAdminStats 三个Counter参数类型相同,需要手写Provider
func provideAdminStats(users user.Repository, books book.Repository, reviews review.Repository, shelves shelf.Service) *stats.AdminStatsUseCase {
	return stats.NewAdminStatsUseCase(users, books, reviews, shelves)
}

// InitializeApp 初始化HTTP引擎
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil
}
