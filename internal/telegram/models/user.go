package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 用户角色常量
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// User 用户模型（管理员集合）
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID int64              `bson:"telegram_id"`        // Telegram User ID（唯一）
	Username   string             `bson:"username,omitempty"` // @username
	Role       string             `bson:"role"`               // admin/owner
	AddedBy    int64              `bson:"added_by,omitempty"` // 添加者的 Telegram ID
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}
