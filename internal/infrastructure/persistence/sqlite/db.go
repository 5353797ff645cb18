// Package sqlite 嵌入式SQLite存储(纯Go实现,无需CGO)
//
// 表结构与仓储复用persistence/mysql中的GORM模型和实现:
//   - clause.OnConflict由方言生成ON CONFLICT ... DO UPDATE
//   - clause.Locking(FOR UPDATE)被方言忽略,写事务依靠单连接串行执行
//
// 用于本地开发(database.driver=sqlite)和测试。
package sqlite

import (
	"fmt"

	gsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
)

// MemoryDSN 生成一个独立命名的共享内存库,每次调用得到一个新库
func MemoryDSN() string {
	return fmt.Sprintf("file:readtrack-%s?mode=memory&cache=shared", uuid.NewString())
}

// Open 打开SQLite数据库并按GORM模型建表
// 连接池固定为1个连接:内存库随最后一个连接关闭而销毁,同时保证事务串行
func Open(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(gsqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := mysql.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("SQLite建表失败: %w", err)
	}

	zap.L().Info("SQLite数据库就绪", zap.String("dsn", dsn))
	return db, nil
}
