package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appuser "github.com/xiebiao/readtrack/internal/application/user"
	"github.com/xiebiao/readtrack/internal/infrastructure/config"
	"github.com/xiebiao/readtrack/internal/interface/http/dto"
	"github.com/xiebiao/readtrack/pkg/logger"
	"github.com/xiebiao/readtrack/pkg/metrics"
	"github.com/xiebiao/readtrack/pkg/mq"
	"github.com/xiebiao/readtrack/pkg/tracing"
)

// Version 构建时注入:-ldflags "-X main.Version=v1.0.0"
var Version = "dev"

// @title                       ReadTrack API
// @version                     1.0
// @description                 图书、书评与书架服务
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zl, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 指标与追踪
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Version:     Version,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zl.Warn("关闭Tracer失败", zap.Error(err))
			}
		}()
	}

	if err := dto.RegisterValidators(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}

	// 4. 依赖组装
	a, err := newApp(cfg, zl)
	if err != nil {
		return err
	}
	defer a.close()

	// 5. user.deleted消费者
	if cfg.MQ.Enabled {
		if err := startCleanupConsumer(ctx, cfg, a.cleanup, zl); err != nil {
			return err
		}
	}

	// 6. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		zl.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("driver", cfg.Database.Driver),
			zap.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 7. 优雅关闭
	zl.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startCleanupConsumer 订阅user.deleted,级联清理用户数据
func startCleanupConsumer(ctx context.Context, cfg *config.Config, cleanup *appuser.UserCleanupUseCase, zl *zap.Logger) error {
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, exchangeType, cfg.MQ.Queue,
		[]string{appuser.RoutingKeyUserDeleted}, zl)
	if err != nil {
		return fmt.Errorf("创建消息消费者失败: %w", err)
	}
	go func() {
		defer func() { _ = consumer.Close() }()
		if err := consumer.Consume(ctx, cleanup.HandleMessage); err != nil {
			zl.Error("消息消费中断", zap.Error(err))
		}
	}()
	return nil
}
