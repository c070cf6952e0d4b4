package service

import (
	"context"

	"forward_bot/internal/telegram/models"
)

// ConfigService 配置存取服务
// 内存快照 + MongoDB 持久化：读操作返回副本，写操作先持久化再更新内存。
type ConfigService interface {
	// Load 从持久层加载全部配置到内存（启动时调用一次）
	Load(ctx context.Context) error

	// ForwardSettings 返回当前转发配置的快照
	ForwardSettings() models.ForwardSettings

	// NotificationSettings 返回当前通知配置的快照
	NotificationSettings() models.NotificationSettings

	// SourceChannels / TargetChannels 返回频道列表的副本
	SourceChannels() []*models.Channel
	TargetChannels() []*models.Channel

	// Targets 返回目标频道 ID 的有序副本
	Targets() []int64

	// Admins 返回管理员 ID 的副本（含环境变量配置的 Owner）
	Admins() []int64

	// AdminUsers 返回持久化的管理员记录副本
	AdminUsers() []*models.User

	// IsSource 判断 chat 是否为已配置的源频道
	IsSource(chatID int64) bool

	// IsAdmin 判断用户是否为管理员（含 Owner）
	IsAdmin(telegramID int64) bool

	// AddSource / RemoveSource / AddTarget / RemoveTarget 频道增删
	AddSource(ctx context.Context, chatID int64) error
	RemoveSource(ctx context.Context, chatID int64) error
	AddTarget(ctx context.Context, chatID int64) error
	RemoveTarget(ctx context.Context, chatID int64) error

	// AddAdmin 添加管理员
	AddAdmin(ctx context.Context, telegramID int64, addedBy int64) error

	// RemoveAdmin 移除管理员（环境变量配置的 Owner 不可移除）
	RemoveAdmin(ctx context.Context, telegramID int64) error

	// SetDelay 设置转发延迟（秒）
	SetDelay(ctx context.Context, seconds int) error

	// ToggleSourceInfo 切换来源信息显示，返回切换后的状态
	ToggleSourceInfo(ctx context.Context) (bool, error)

	// NoteChannelTitle 回填频道名称（收到消息时，尽力而为）
	NoteChannelTitle(ctx context.Context, chatID int64, title string)
}
