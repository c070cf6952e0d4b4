package telegram

import (
	"context"

	"forward_bot/internal/logger"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// RequireAdmin 中间件：仅允许管理员（含环境变量配置的 Owner）执行
func (b *Bot) RequireAdmin(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}

		if !b.configService.IsAdmin(update.Message.From.ID) {
			logger.L().Warnf("Non-admin user %d attempted to use admin command: %q",
				update.Message.From.ID, update.Message.Text)
			b.sendErrorMessage(ctx, update.Message.Chat.ID, "此命令需要管理员权限")
			return
		}

		next(ctx, botInstance, update)
	}
}
