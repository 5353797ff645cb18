package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 10*time.Minute, cfg.Cache.BookTTL)
	assert.Equal(t, "readtrack.events", cfg.MQ.Exchange)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, "config.yaml", `
server:
  port: 9090
database:
  driver: sqlite
  password: from-file
redis:
  enabled: false
`)
	t.Setenv("READTRACK_DATABASE_PASSWORD", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:readtrack?mode=memory&cache=shared", cfg.Database.SQLiteDSN)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvSpecificFile(t *testing.T) {
	dir := writeConfig(t, "config.test.yaml", "server:\n  port: 7070\n")
	t.Setenv("READTRACK_ENV", "test")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("未知驱动", func(t *testing.T) {
		t.Setenv("READTRACK_DATABASE_DRIVER", "mongodb")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("生产环境默认密钥", func(t *testing.T) {
		t.Setenv("READTRACK_SERVER_MODE", "release")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "readtrack",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/readtrack?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}

func TestLoad_AdminFromEnv(t *testing.T) {
	t.Setenv("READTRACK_ADMIN_EMAIL", "root@readtrack.dev")
	t.Setenv("READTRACK_ADMIN_PASSWORD", "s3cretpass")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "root@readtrack.dev", cfg.Admin.Email)
	assert.Equal(t, "s3cretpass", cfg.Admin.Password)
	assert.Equal(t, "Administrator", cfg.Admin.Name)
}
