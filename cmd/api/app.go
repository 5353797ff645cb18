package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

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
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/sqlite"
	"github.com/xiebiao/readtrack/internal/interface/http/handler"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	"github.com/xiebiao/readtrack/internal/interface/http/router"
	"github.com/xiebiao/readtrack/pkg/jwt"
	"github.com/xiebiao/readtrack/pkg/mq"
)

// exchangeType 事件Exchange类型(按路由键前缀订阅)
const exchangeType = "topic"

// storage 存储驱动:mysql或sqlite,两者共用同一套GORM仓储
type storage struct {
	tx      shared.Transactor
	users   user.Repository
	books   book.Repository
	reviews review.Repository
	shelves shelf.Repository
}

// app 组装完成的应用
type app struct {
	engine  *gin.Engine
	cleanup *appuser.UserCleanupUseCase
	closers []func() error
}

// close 逆序释放资源
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.L().Warn("释放资源失败", zap.Error(err))
		}
	}
}

// newApp 手动依赖注入
// 依赖链:Repository ← Service ← UseCase ← Handler ← Router
func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	// 1. 存储
	st, err := openStorage(cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	// 2. 缓存与会话:未启用Redis时退化为不缓存 + 进程内会话
	var (
		cache    book.Cache = book.NopCache{}
		sessions appuser.SessionStore
	)
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		cache = redis.NewBookCache(client, cfg.Cache.BookTTL, cfg.Cache.BreakerTimeout)
		sessions = redis.NewSessionStore(client)
	} else {
		logger.Warn("Redis未启用,图书详情不缓存,会话保存在进程内")
		sessions = memory.NewSessionStore()
	}

	// 3. 书评变更监听者:缓存失效 + 事件发布
	listeners := []review.Listener{appreview.NewCacheInvalidator(cache)}
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, exchangeType, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("创建消息发布者失败: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		listeners = append(listeners, appreview.NewEventPublisher(publisher))
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	// 4. 领域层
	userService := user.NewService(st.users)
	bookService := book.NewService(st.books)
	aggregator := rating.NewAggregator(st.reviews, st.books)
	reviewService := review.NewService(st.reviews, st.books, aggregator, st.tx, listeners...)
	shelfService := shelf.NewService(st.shelves, st.books, st.tx)

	// 5. 应用层
	a.cleanup = appuser.NewUserCleanupUseCase(st.tx, st.users, reviewService, shelfService, cache)

	handlers := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions),
			appuser.NewLogoutUseCase(sessions, jwtManager),
			appuser.NewRefreshTokenUseCase(jwtManager),
			appuser.NewGetProfileUseCase(userService),
			appuser.NewUpdateProfileUseCase(userService),
		),
		Book: handler.NewBookHandler(
			appbook.NewPublishBookUseCase(bookService),
			appbook.NewUpdateBookUseCase(st.tx, bookService, cache),
			appbook.NewDeleteBookUseCase(st.tx, bookService, reviewService, shelfService, cache),
			appbook.NewGetBookUseCase(bookService, cache),
			appbook.NewListBooksUseCase(bookService),
			appbook.NewListGenresUseCase(bookService),
			appbook.NewSimilarBooksUseCase(bookService),
			appbook.NewRecommendBooksUseCase(st.books, bookService, userService, shelfService),
		),
		Review: handler.NewReviewHandler(
			appreview.NewUpsertReviewUseCase(reviewService),
			appreview.NewDeleteReviewUseCase(reviewService),
			appreview.NewListReviewsUseCase(reviewService),
			appreview.NewToggleLikeUseCase(reviewService),
		),
		Shelf: handler.NewShelfHandler(
			appshelf.NewUpsertShelfUseCase(shelfService),
			appshelf.NewRemoveShelfUseCase(shelfService),
			appshelf.NewListMyShelvesUseCase(shelfService),
			appshelf.NewShelfStatsUseCase(shelfService),
		),
		Admin: handler.NewAdminHandler(
			appuser.NewListUsersUseCase(userService),
			appuser.NewDeleteUserUseCase(userService, a.cleanup, sessions),
			stats.NewAdminStatsUseCase(st.users, st.books, st.reviews, shelfService),
		),
	}

	// 6. 接口层
	a.engine = router.New(routerOptions(cfg), handlers, middleware.NewAuthMiddleware(jwtManager, sessions), logger)
	return a, nil
}

func openStorage(cfg *config.Config, a *app) (*storage, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Database.Driver == "sqlite" {
		zap.L().Warn("使用SQLite存储", zap.String("dsn", cfg.Database.SQLiteDSN))
		db, err = sqlite.Open(cfg.Database.SQLiteDSN, cfg.Server.Mode == gin.DebugMode)
	} else {
		db, err = mysql.NewDB(cfg)
	}
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sqlDB.Close)

	return &storage{
		tx:      mysql.NewTxManager(db),
		users:   mysql.NewUserRepository(db),
		books:   mysql.NewBookRepository(db),
		reviews: mysql.NewReviewRepository(db),
		shelves: mysql.NewShelfRepository(db),
	}, nil
}

func routerOptions(cfg *config.Config) router.Options {
	return router.Options{
		Mode:           cfg.Server.Mode,
		SlowThreshold:  cfg.Server.SlowThreshold,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		SwaggerEnabled: cfg.Server.Mode != gin.ReleaseMode,
	}
}
