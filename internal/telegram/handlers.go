package telegram

import (
	"context"
	"fmt"

	"forward_bot/internal/logger"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// registerHandlers 注册所有命令处理器（异步执行）
func (b *Bot) registerHandlers() {
	// 普通命令 - 异步执行
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact,
		b.asyncHandler(b.handleStart))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact,
		b.asyncHandler(b.handleHelp))

	// 管理员命令 - 异步执行
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleStatus)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleStats)))

	// 频道配置命令
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_source", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleAddSource)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove_source", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleRemoveSource)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list_sources", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleListSources)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_target", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleAddTarget)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove_target", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleRemoveTarget)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list_targets", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleListTargets)))

	// 管理员管理命令
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_admin", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleAddAdmin)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove_admin", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleRemoveAdmin)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list_admins", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleListAdmins)))

	// 设置命令
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleSettings)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/set_delay", bot.MatchTypePrefix,
		b.asyncHandler(b.RequireAdmin(b.handleSetDelay)))
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/toggle_source_info", bot.MatchTypeExact,
		b.asyncHandler(b.RequireAdmin(b.handleToggleSourceInfo)))

	logger.L().Debug("All handlers registered with async execution")
}

// asyncHandler 将 handler 包装为工作池任务
func (b *Bot) asyncHandler(handler bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
		b.workerPool.Submit(HandlerTask{
			Ctx:         ctx,
			BotInstance: botInstance,
			Update:      update,
			Handler:     handler,
		})
	}
}

// handleStart 处理 /start 命令
func (b *Bot) handleStart(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 你好, %s!\n\n本 Bot 将源频道的消息转发到配置的目标频道。\n\n使用 /help 查看可用命令。",
		escapeHTML(update.Message.From.FirstName),
	)

	b.sendMessage(ctx, update.Message.Chat.ID, welcomeText)
}

// handleHelp 处理 /help 命令
func (b *Bot) handleHelp(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📖 可用命令:\n\n" +
		"基本命令:\n" +
		"/start - 开始\n" +
		"/help - 显示此帮助\n\n" +
		"管理员命令:\n" +
		"/status - 运行状态\n" +
		"/stats - 转发统计\n" +
		"/settings - 当前设置\n" +
		"/set_delay <秒> - 设置转发延迟\n" +
		"/toggle_source_info - 切换来源信息\n\n" +
		"频道配置:\n" +
		"/add_source <chat_id> - 添加源频道\n" +
		"/remove_source <chat_id> - 移除源频道\n" +
		"/list_sources - 列出源频道\n" +
		"/add_target <chat_id> - 添加目标频道\n" +
		"/remove_target <chat_id> - 移除目标频道\n" +
		"/list_targets - 列出目标频道\n\n" +
		"管理员:\n" +
		"/add_admin <user_id> - 添加管理员\n" +
		"/remove_admin <user_id> - 移除管理员\n" +
		"/list_admins - 列出管理员"

	b.sendMessage(ctx, update.Message.Chat.ID, helpText)
}

// handleStatus 处理 /status 命令
func (b *Bot) handleStatus(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID, b.buildStatusMessage(ctx))
}

// handleStats 处理 /stats 命令
func (b *Bot) handleStats(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID, b.buildStatsMessage(ctx))
}
