package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend/api"
	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/infra"
	"backend/internal/logger"
	"backend/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 加载 .env 文件（不存在时忽略）
	_ = godotenv.Load()

	env := flag.String("env", "dev", "运行环境 (dev, prod, test)")
	configPath := flag.String("config", "", "配置文件路径（可选）")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("FinanceFlow 服务启动中", zap.String("env", *env))

	// 初始化数据库
	db, err := infra.InitDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer infra.CloseDatabase()

	// 自动迁移表结构
	if cfg.Database.AutoMigrate {
		if err := infra.AutoMigrate(db,
			&models.User{},
			&models.SOP{},
			&models.Automation{},
			&auth.Session{},
		); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	// 进程级上下文：收到退出信号后取消，后台任务随之退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 组装路由
	router, err := api.SetupRouter(ctx, cfg, db)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动服务
	go func() {
		logger.Info("HTTP 服务监听中", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// 等待退出信号
	<-ctx.Done()

	logger.Info("收到退出信号，开始优雅关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("优雅关闭失败", zap.Error(err))
	}

	logger.Info("服务已退出")
}
