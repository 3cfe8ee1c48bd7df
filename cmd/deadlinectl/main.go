package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/samarth-p/expertiza/config"
	"github.com/samarth-p/expertiza/internal/cli"
	"github.com/samarth-p/expertiza/internal/repository"
	"github.com/samarth-p/expertiza/internal/service"
	"github.com/samarth-p/expertiza/pkg/clock"
	"github.com/samarth-p/expertiza/pkg/database"
	applogger "github.com/samarth-p/expertiza/pkg/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, bootstrap, nil); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap 依赖注入: 配置 → 日志 → 数据库 → Repository → Service
func bootstrap(configPath string) (*cli.App, error) {
	// 1. 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 4. Repository → Service
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, clock.System(), logger)

	return &cli.App{
		Service: svc,
		Migrate: func(ctx context.Context) error {
			return database.RunMigrations(sqlDB, logger)
		},
		Rollback: func(ctx context.Context, steps int) error {
			return database.RollbackMigrations(sqlDB, steps, logger)
		},
		Close: func() {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("关闭数据库连接失败", zap.Error(err))
			}
			logger.Sync()
		},
	}, nil
}
