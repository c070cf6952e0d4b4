package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryRecord 投递日志：每个 (源消息, 目标频道) 的一次投递尝试
// 仅追加，写入后不再修改。
type DeliveryRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	BatchID            string             `bson:"batch_id"`                       // 批次ID (UUID)，同一批消息共享
	SourceChatID       int64              `bson:"source_chat_id"`                 // 源频道 ID
	TargetChatID       int64              `bson:"target_chat_id"`                 // 目标频道 ID
	MessageID          int                `bson:"message_id"`                     // 源消息 ID
	ForwardedMessageID int                `bson:"forwarded_message_id,omitempty"` // 转发后的消息 ID（失败时为 0）
	ContentKind        string             `bson:"content_kind"`                   // 内容类型（text/photo/...）
	MediaGroupID       string             `bson:"media_group_id,omitempty"`       // 媒体组 ID
	IsMediaGroup       bool               `bson:"is_media_group"`                 // 是否属于媒体组批次
	Success            bool               `bson:"success"`                        // 是否投递成功
	ErrorMessage       string             `bson:"error_message,omitempty"`        // 失败原因
	Timestamp          time.Time          `bson:"timestamp"`                      // 投递时间
}

// ContentKindCount 按内容类型聚合的计数（/stats 与每日报告使用）
type ContentKindCount struct {
	ContentKind  string `bson:"content_kind"`
	IsMediaGroup bool   `bson:"is_media_group"`
	Count        int64  `bson:"count"`
}

// DeliveryStats 时间窗口内的投递统计
type DeliveryStats struct {
	Total   int64
	Success int64
}

// SuccessRate 返回成功率（0-100），无数据时返回 0。
func (s DeliveryStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Total) * 100
}

// NewDeliveryRecord 构造一条投递记录
func NewDeliveryRecord(batchID string, sourceChatID, targetChatID int64, messageID int, contentKind, mediaGroupID string, isGroup bool) *DeliveryRecord {
	return &DeliveryRecord{
		BatchID:      batchID,
		SourceChatID: sourceChatID,
		TargetChatID: targetChatID,
		MessageID:    messageID,
		ContentKind:  contentKind,
		MediaGroupID: mediaGroupID,
		IsMediaGroup: isGroup,
		Timestamp:    time.Now().UTC(),
	}
}
