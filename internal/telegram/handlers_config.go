package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"forward_bot/internal/telegram/models"
	"forward_bot/internal/telegram/repository"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// parseChatIDArg 解析命令的唯一数字参数
// 整个参数必须是合法整数，"123abc" 这类带尾随字符的输入一律拒绝。
func parseChatIDArg(text, usage string) (int64, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return 0, errors.New(usage)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, errors.New("无效的 ID，必须是数字")
	}
	return id, nil
}

// handleAddSource 处理 /add_source 命令
func (b *Bot) handleAddSource(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /add_source <chat_id>\n例如: /add_source -1001234567890")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.AddSource(ctx, id); err != nil {
		if errors.Is(err, repository.ErrChannelExists) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("频道 %d 已是源频道", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, "添加失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已添加源频道: %d", id))
}

// handleRemoveSource 处理 /remove_source 命令
func (b *Bot) handleRemoveSource(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /remove_source <chat_id>")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.RemoveSource(ctx, id); err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("频道 %d 不在源频道列表中", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, "移除失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已移除源频道: %d", id))
}

// handleListSources 处理 /list_sources 命令
func (b *Bot) handleListSources(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID,
		formatChannelList("📥 源频道列表", b.configService.SourceChannels()))
}

// handleAddTarget 处理 /add_target 命令
func (b *Bot) handleAddTarget(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /add_target <chat_id>\n例如: /add_target -1001234567890")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.AddTarget(ctx, id); err != nil {
		if errors.Is(err, repository.ErrChannelExists) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("频道 %d 已是目标频道", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, "添加失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已添加目标频道: %d", id))
}

// handleRemoveTarget 处理 /remove_target 命令
func (b *Bot) handleRemoveTarget(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /remove_target <chat_id>")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.RemoveTarget(ctx, id); err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("频道 %d 不在目标频道列表中", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, "移除失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已移除目标频道: %d", id))
}

// handleListTargets 处理 /list_targets 命令
func (b *Bot) handleListTargets(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	b.sendMessage(ctx, update.Message.Chat.ID,
		formatChannelList("📤 目标频道列表", b.configService.TargetChannels()))
}

// handleAddAdmin 处理 /add_admin 命令
func (b *Bot) handleAddAdmin(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /add_admin <user_id>\n例如: /add_admin 123456789")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.AddAdmin(ctx, id, update.Message.From.ID); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("用户 %d 已是管理员", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, "添加失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已添加管理员: %d", id))
}

// handleRemoveAdmin 处理 /remove_admin 命令
func (b *Bot) handleRemoveAdmin(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, err := parseChatIDArg(update.Message.Text, "用法: /remove_admin <user_id>")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.RemoveAdmin(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			b.sendErrorMessage(ctx, chatID, fmt.Sprintf("用户 %d 不是管理员", id))
			return
		}
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("已移除管理员: %d", id))
}

// handleListAdmins 处理 /list_admins 命令
func (b *Bot) handleListAdmins(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}

	var text strings.Builder
	text.WriteString("👥 管理员列表:\n\n")

	admins := b.configService.AdminUsers()
	ownerSet := make(map[int64]struct{})
	i := 0
	for _, id := range b.configService.Admins() {
		ownerSet[id] = struct{}{}
	}
	for _, admin := range admins {
		i++
		name := admin.Username
		if name == "" {
			name = fmt.Sprintf("%d", admin.TelegramID)
		}
		text.WriteString(fmt.Sprintf("%d. ⭐ %s - ID: %d\n", i, escapeHTML(name), admin.TelegramID))
		delete(ownerSet, admin.TelegramID)
	}
	// 环境变量配置的 Owner（不落库）
	for id := range ownerSet {
		i++
		text.WriteString(fmt.Sprintf("%d. 👑 Owner - ID: %d\n", i, id))
	}

	if i == 0 {
		b.sendMessage(ctx, update.Message.Chat.ID, "📝 暂无管理员")
		return
	}

	b.sendMessage(ctx, update.Message.Chat.ID, text.String())
}

// handleSettings 处理 /settings 命令
func (b *Bot) handleSettings(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}

	fs := b.configService.ForwardSettings()
	ns := b.configService.NotificationSettings()

	text := fmt.Sprintf(
		"⚙️ 当前设置\n\n"+
			"转发:\n"+
			"  保留发送者: %s\n"+
			"  来源信息: %s\n"+
			"  转发延迟: %d 秒\n"+
			"  每分钟限额: %d\n"+
			"  媒体组窗口: %d 秒\n"+
			"  类型过滤: %s\n"+
			"  关键词过滤: %s\n\n"+
			"通知:\n"+
			"  失败通知管理员: %s\n"+
			"  每日报告: %s",
		onOff(fs.PreserveSender),
		onOff(fs.AddSourceInfo),
		fs.DelaySeconds,
		fs.MaxForwardsPerMinute,
		fs.MediaGroupTimeout,
		listOrNone(fs.FilterContentTypes),
		listOrNone(fs.KeywordFilter),
		onOff(ns.NotifyAdminOnError),
		onOff(ns.DailyReport),
	)

	b.sendMessage(ctx, update.Message.Chat.ID, text)
}

// handleSetDelay 处理 /set_delay 命令
func (b *Bot) handleSetDelay(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	seconds, err := parseChatIDArg(update.Message.Text, "用法: /set_delay <秒>\n例如: /set_delay 5")
	if err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	if err := b.configService.SetDelay(ctx, int(seconds)); err != nil {
		b.sendErrorMessage(ctx, chatID, err.Error())
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("转发延迟已设置为 %d 秒", seconds))
}

// handleToggleSourceInfo 处理 /toggle_source_info 命令
func (b *Bot) handleToggleSourceInfo(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	enabled, err := b.configService.ToggleSourceInfo(ctx)
	if err != nil {
		b.sendErrorMessage(ctx, chatID, "切换失败，请稍后重试")
		return
	}

	b.sendSuccessMessage(ctx, chatID, fmt.Sprintf("来源信息已%s", onOffVerb(enabled)))
}

// formatChannelList 构建频道列表文本
func formatChannelList(title string, channels []*models.Channel) string {
	if len(channels) == 0 {
		return "📝 暂无频道"
	}

	var text strings.Builder
	text.WriteString(title)
	text.WriteString(":\n\n")
	for i, ch := range channels {
		name := ch.Title
		if name == "" {
			name = "(未知名称)"
		}
		text.WriteString(fmt.Sprintf("%d. %s - ID: %d\n", i+1, escapeHTML(name), ch.ChatID))
	}
	return text.String()
}

func onOff(v bool) string {
	if v {
		return "✅ 开启"
	}
	return "❌ 关闭"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "无"
	}
	return strings.Join(items, ", ")
}

func onOffVerb(v bool) string {
	if v {
		return "开启"
	}
	return "关闭"
}
