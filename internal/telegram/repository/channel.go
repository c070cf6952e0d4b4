package repository

import (
	"context"
	"fmt"
	"time"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type channelRepository struct {
	collection *mongo.Collection
}

// NewChannelRepository 创建频道仓储实例
func NewChannelRepository(db *mongo.Database) ChannelRepository {
	return &channelRepository{
		collection: db.Collection("channels"),
	}
}

// Add 添加频道
func (r *channelRepository) Add(ctx context.Context, channel *models.Channel) error {
	now := time.Now().UTC()
	channel.Active = true
	channel.AddedAt = now
	channel.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, channel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrChannelExists
		}
		return fmt.Errorf("failed to add channel: %w", err)
	}
	return nil
}

// Remove 移除频道
func (r *channelRepository) Remove(ctx context.Context, chatID int64, kind models.ChannelKind) error {
	filter := bson.M{"chat_id": chatID, "kind": kind}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove channel: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrChannelNotFound
	}
	return nil
}

// List 列出指定角色的所有活跃频道（按添加顺序）
func (r *channelRepository) List(ctx context.Context, kind models.ChannelKind) ([]*models.Channel, error) {
	filter := bson.M{"kind": kind, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer cursor.Close(ctx)

	var channels []*models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("failed to decode channels: %w", err)
	}
	return channels, nil
}

// UpdateTitle 回填频道名称
func (r *channelRepository) UpdateTitle(ctx context.Context, chatID int64, kind models.ChannelKind, title string) error {
	filter := bson.M{"chat_id": chatID, "kind": kind}
	update := bson.M{"$set": bson.M{"title": title, "updated_at": time.Now().UTC()}}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update channel title: %w", err)
	}
	return nil
}

// EnsureIndexes 确保索引存在
func (r *channelRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// 复合唯一索引（同一 chat 同一角色只允许一条记录）
		{
			Keys: bson.D{
				{Key: "chat_id", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "kind", Value: 1}, {Key: "active", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes for channels: %w", err)
	}
	return nil
}
