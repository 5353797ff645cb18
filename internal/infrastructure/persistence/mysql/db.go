package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readtrack/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 2. debug模式打印SQL
// 3. database.auto_migrate为true时用AutoMigrate建表,否则由cmd/migrate执行goose迁移
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	zap.L().Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

// AutoMigrate 按GORM模型建表(开发环境与测试使用)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&BookGenreModel{},
		&ReviewModel{},
		&ReviewLikeModel{},
		&ShelfEntryModel{},
	)
}

// UserModel GORM用户模型
// 设计说明:
// 1. infrastructure层的数据模型,domain/user/entity.go不依赖GORM
// 2. 用户删除为物理删除,关联的书评、书架由应用层在同一事务内清理
type UserModel struct {
	ID              uint      `gorm:"primaryKey"`
	Email           string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password        string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Name            string    `gorm:"size:50;not null;comment:昵称"`
	IsAdmin         bool      `gorm:"not null;default:false;comment:是否管理员"`
	IsVerified      bool      `gorm:"not null;default:false;comment:邮箱是否已验证"`
	FavouriteGenres []string  `gorm:"serializer:json;type:json;comment:偏好类型"`
	CreatedAt       time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. average_rating/rating_count是书评的物化汇总,只由UpdateRating写入
// 2. 类型存放在book_genres表,便于按类型过滤与去重
// 3. (average_rating, rating_count)复合索引用于按评分排序
type BookModel struct {
	ID              uint             `gorm:"primaryKey"`
	Title           string           `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author          string           `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Description     string           `gorm:"type:text;comment:简介"`
	CoverImageURL   string           `gorm:"size:500;comment:封面图片URL"`
	PublicationYear int              `gorm:"not null;default:0;comment:出版年份"`
	Pages           int              `gorm:"not null;default:0;comment:页数"`
	AverageRating   float64          `gorm:"index:idx_rating,priority:1;not null;default:0;comment:平均评分"`
	RatingCount     int64            `gorm:"index:idx_rating,priority:2;not null;default:0;comment:评分人数"`
	CreatedBy       uint             `gorm:"index;not null;comment:录入人用户ID"`
	Genres          []BookGenreModel `gorm:"foreignKey:BookID"`
	CreatedAt       time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookGenreModel 图书类型
type BookGenreModel struct {
	BookID uint   `gorm:"primaryKey;comment:图书ID"`
	Genre  string `gorm:"primaryKey;size:50;index;comment:类型"`
}

// TableName 指定表名
func (BookGenreModel) TableName() string {
	return "book_genres"
}

// ReviewModel GORM书评模型
// (book_id, user_id)唯一索引保证每人每书至多一条书评
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex:uk_reviews_book_user,priority:1;not null;comment:图书ID"`
	UserID    uint      `gorm:"uniqueIndex:uk_reviews_book_user,priority:2;index;not null;comment:作者用户ID"`
	Rating    int       `gorm:"type:tinyint;not null;check:rating >= 1 AND rating <= 5;comment:评分(1-5)"`
	Comment   string    `gorm:"type:text;comment:评论"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewLikeModel 书评点赞,复合主键保证同一用户对同一书评只有一条
type ReviewLikeModel struct {
	ReviewID  uint      `gorm:"primaryKey;comment:书评ID"`
	UserID    uint      `gorm:"primaryKey;index;comment:点赞用户ID"`
	CreatedAt time.Time `gorm:"comment:点赞时间"`
}

// TableName 指定表名
func (ReviewLikeModel) TableName() string {
	return "review_likes"
}

// ShelfEntryModel GORM书架模型
// 设计说明:
// 1. (user_id, book_id)唯一索引,写入使用INSERT ... ON DUPLICATE KEY UPDATE
// 2. status为空或旧版枚举值的行是旧版记录,读取时升级
// 3. added_at可为空(旧版记录没有该字段)
type ShelfEntryModel struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uint       `gorm:"uniqueIndex:uk_shelf_user_book,priority:1;not null;comment:用户ID"`
	BookID      uint       `gorm:"uniqueIndex:uk_shelf_user_book,priority:2;index;not null;comment:图书ID"`
	Status      string     `gorm:"size:32;not null;default:'';comment:阅读状态"`
	CurrentPage int        `gorm:"not null;default:0;comment:当前页码"`
	AddedAt     *time.Time `gorm:"comment:加入书架时间"`
	CreatedAt   time.Time  `gorm:"comment:创建时间"`
	UpdatedAt   time.Time  `gorm:"index;comment:更新时间"`
}

// TableName 指定表名
func (ShelfEntryModel) TableName() string {
	return "shelf_entries"
}
