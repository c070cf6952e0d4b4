package repository

import (
	"context"
	"time"

	"forward_bot/internal/telegram/models"
)

// ChannelRepository 源/目标频道数据访问接口
type ChannelRepository interface {
	// Add 添加频道（重复添加返回 ErrChannelExists）
	Add(ctx context.Context, channel *models.Channel) error

	// Remove 移除频道（不存在返回 ErrChannelNotFound）
	Remove(ctx context.Context, chatID int64, kind models.ChannelKind) error

	// List 列出指定角色的所有活跃频道
	List(ctx context.Context, kind models.ChannelKind) ([]*models.Channel, error)

	// UpdateTitle 回填频道名称（收到消息时）
	UpdateTitle(ctx context.Context, chatID int64, kind models.ChannelKind, title string) error

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// UserRepository 管理员数据访问接口
type UserRepository interface {
	// Add 添加管理员（重复添加返回 ErrUserExists）
	Add(ctx context.Context, user *models.User) error

	// Remove 移除管理员
	Remove(ctx context.Context, telegramID int64) error

	// List 列出所有管理员
	List(ctx context.Context) ([]*models.User, error)

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}

// SettingsRepository 设置文档数据访问接口
type SettingsRepository interface {
	// Load 读取设置文档；文档不存在时返回默认设置
	Load(ctx context.Context) (*models.BotSettings, error)

	// Save 保存设置文档（upsert）
	Save(ctx context.Context, settings *models.BotSettings) error
}

// DeliveryLogRepository 投递日志数据访问接口（仅追加）
type DeliveryLogRepository interface {
	// BulkCreate 批量写入投递记录
	BulkCreate(ctx context.Context, records []*models.DeliveryRecord) error

	// CountByTimeRange 统计时间窗口内的总数与成功数
	CountByTimeRange(ctx context.Context, from, to time.Time) (models.DeliveryStats, error)

	// GroupByContentKind 按内容类型聚合时间窗口内的投递数
	GroupByContentKind(ctx context.Context, from, to time.Time) ([]models.ContentKindCount, error)

	// EnsureIndexes 确保索引存在
	EnsureIndexes(ctx context.Context) error
}
