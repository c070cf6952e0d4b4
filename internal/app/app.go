package app

import (
	"context"
	"fmt"

	"forward_bot/internal/config"
	"forward_bot/internal/logger"
	"forward_bot/internal/mongo"
	"forward_bot/internal/telegram"
)

// App 应用服务容器
// 负责管理所有服务的生命周期（初始化、运行、关闭）
type App struct {
	MongoDB *mongo.Client
	Bot     *telegram.Bot
}

// New 初始化应用及其所有服务
// 按顺序初始化各个服务，任何服务初始化失败都会返回错误
func New(cfg *config.Config) (*App, error) {
	app := &App{}

	// 初始化 MongoDB
	mongoClient, err := mongo.InitFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init MongoDB failed: %w", err)
	}
	app.MongoDB = mongoClient
	logger.L().Info("MongoDB initialized successfully")

	// 初始化 Telegram Bot
	app.Bot, err = telegram.InitFromConfig(cfg, mongoClient.Database())
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("init Telegram bot failed: %w", err)
	}

	return app, nil
}

// Close 优雅关闭所有服务
// 关闭顺序与初始化相反：先停 Bot（排空在途转发），再断开数据库。
func (a *App) Close(ctx context.Context) error {
	if a.Bot != nil {
		if err := a.Bot.Stop(ctx); err != nil {
			logger.L().Errorf("Stop Telegram bot failed: %v", err)
		}
	}

	if a.MongoDB != nil {
		if err := a.MongoDB.Close(ctx); err != nil {
			return fmt.Errorf("close MongoDB failed: %w", err)
		}
	}
	return nil
}
