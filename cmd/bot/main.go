package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"forward_bot/internal/app"
	"forward_bot/internal/config"
	"forward_bot/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// 本地开发时从 .env 读取，不存在则忽略
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("配置加载失败: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		logger.L().Fatalf("应用初始化失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 阻塞运行，收到信号后返回
	if err := application.Bot.Start(ctx); err != nil {
		logger.L().Errorf("Bot 运行异常: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Close(shutdownCtx); err != nil {
		logger.L().Errorf("应用关闭失败: %v", err)
	}
	logger.L().Info("应用已退出")
}
