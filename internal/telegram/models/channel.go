package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelKind 频道角色：消息来源或转发目标
type ChannelKind string

const (
	ChannelKindSource ChannelKind = "source"
	ChannelKindTarget ChannelKind = "target"
)

// Channel 源/目标频道记录
// 同一个 chat 可以同时是 source 和 target（两条记录）。
type Channel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ChatID    int64              `bson:"chat_id"`         // Telegram Chat ID
	Kind      ChannelKind        `bson:"kind"`            // source/target
	Title     string             `bson:"title,omitempty"` // 频道名称（收到消息时回填）
	Active    bool               `bson:"active"`          // 是否启用
	AddedAt   time.Time          `bson:"added_at"`        // 添加时间
	UpdatedAt time.Time          `bson:"updated_at"`      // 更新时间
}
