// create-admin 初始化管理员账号
//
// 账号信息来自配置(环境变量优先):
//
//	READTRACK_ADMIN_EMAIL=admin@example.com READTRACK_ADMIN_PASSWORD=secret123 go run ./cmd/create-admin
//
// 管理员已存在时不做修改;同邮箱的普通账号会被提升为管理员。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/readtrack/internal/application/user"
	"github.com/xiebiao/readtrack/internal/domain/user"
	"github.com/xiebiao/readtrack/internal/infrastructure/config"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/sqlite"
	"github.com/xiebiao/readtrack/pkg/logger"
)

func main() {
	configDir := flag.String("config", "", "配置文件目录(默认./config与.)")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		zl.Fatal("请设置READTRACK_ADMIN_EMAIL与READTRACK_ADMIN_PASSWORD")
	}

	db, err := openDB(cfg)
	if err != nil {
		zl.Fatal("连接数据库失败", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uc := appuser.NewCreateAdminUseCase(user.NewService(mysql.NewUserRepository(db)), zl)
	if _, _, err := uc.Execute(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		zl.Fatal("创建管理员失败", zap.String("email", cfg.Admin.Email), zap.Error(err))
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == "sqlite" {
		return sqlite.Open(cfg.Database.SQLiteDSN, false)
	}
	return mysql.NewDB(cfg)
}
