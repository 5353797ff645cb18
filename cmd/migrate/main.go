// migrate 执行数据库版本迁移(goose)
//
// 用法:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate status
//	go run ./cmd/migrate down
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/infrastructure/config"
	"github.com/xiebiao/readtrack/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readtrack/pkg/logger"
)

func main() {
	configDir := flag.String("config", "", "配置文件目录(默认./config与.)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: migrate [-config dir] up|down|status|version|reset\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

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

	if cfg.Database.Driver != "mysql" {
		zl.Fatal("只有mysql驱动需要迁移", zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("mysql", cfg.Database.DSN()+"&multiStatements=true")
	if err != nil {
		zl.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	if err := mysql.Migrate(db, command); err != nil {
		zl.Fatal("迁移失败", zap.String("command", command), zap.Error(err))
	}
	zl.Info("迁移完成", zap.String("command", command), zap.String("dbname", cfg.Database.DBName))
}
