package mysql

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsDir 迁移脚本在embed.FS中的目录
const migrationsDir = "migrations"

// Migrate 执行goose迁移命令
// command: up | down | status | version | reset
func Migrate(db *sql.DB, command string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("设置迁移方言失败: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, migrationsDir)
	case "down":
		return goose.Down(db, migrationsDir)
	case "status":
		return goose.Status(db, migrationsDir)
	case "version":
		return goose.Version(db, migrationsDir)
	case "reset":
		return goose.Reset(db, migrationsDir)
	default:
		return fmt.Errorf("未知的迁移命令: %s", command)
	}
}
