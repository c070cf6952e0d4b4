package models

// ForwardSettings 转发行为配置
// Aggregator 读取媒体组超时，Filter 读取过滤规则，Dispatcher 读取延迟与限速。
type ForwardSettings struct {
	PreserveSender       bool     `bson:"preserve_sender"`         // 保留发送者信息
	AddSourceInfo        bool     `bson:"add_source_info"`         // 添加来源信息
	FilterContentTypes   []string `bson:"filter_content_types"`    // 过滤的内容类型
	KeywordFilter        []string `bson:"keyword_filter"`          // 关键词过滤
	DelaySeconds         int      `bson:"delay_seconds"`           // 转发延迟(秒)
	MaxForwardsPerMinute int      `bson:"max_forwards_per_minute"` // 每分钟最大转发数
	MediaGroupTimeout    int      `bson:"media_group_timeout"`     // 媒体组超时时间(秒)
}

// NotificationSettings 通知配置
type NotificationSettings struct {
	NotifyAdminOnError bool  `bson:"notify_admin_on_error"` // 转发失败时通知管理员
	DailyReport        bool  `bson:"daily_report"`          // 是否发送每日报告
	ReportChannel      int64 `bson:"report_channel"`        // 报告频道（0 表示发给所有管理员）
}

// BotSettings 持久化的设置文档（单文档，_id 固定）
type BotSettings struct {
	ID           string               `bson:"_id"`
	Forward      ForwardSettings      `bson:"forward"`
	Notification NotificationSettings `bson:"notification"`
}

// BotSettingsDocID 设置文档的固定 _id
const BotSettingsDocID = "bot_settings"

// DefaultForwardSettings 返回默认转发配置
func DefaultForwardSettings() ForwardSettings {
	return ForwardSettings{
		PreserveSender:       true,
		AddSourceInfo:        true,
		FilterContentTypes:   []string{},
		KeywordFilter:        []string{},
		DelaySeconds:         0,
		MaxForwardsPerMinute: 60,
		MediaGroupTimeout:    3,
	}
}

// DefaultNotificationSettings 返回默认通知配置
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		NotifyAdminOnError: true,
		DailyReport:        true,
		ReportChannel:      0,
	}
}
