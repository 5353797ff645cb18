// Package logger 基于zap的结构化日志
//
// 启动时调用一次New并安装为全局Logger，之后既可以依赖注入*zap.Logger，
// 也可以在无法注入的地方（如response.Error）使用zap.L()。
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level        string // debug/info/warn/error
	Format       string // json/console
	Output       string // stdout/stderr/文件路径
	EnableCaller bool
}

// New 创建Logger并替换zap全局Logger
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("日志级别非法: %w", err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("日志格式非法: %s", cfg.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableCaller = !cfg.EnableCaller
	output := defaultString(cfg.Output, "stdout")
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("创建Logger失败: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
