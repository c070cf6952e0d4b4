package repository

import (
	"context"
	"fmt"
	"time"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type deliveryLogRepository struct {
	collection *mongo.Collection
}

// NewDeliveryLogRepository 创建投递日志仓储实例
func NewDeliveryLogRepository(db *mongo.Database) DeliveryLogRepository {
	return &deliveryLogRepository{
		collection: db.Collection("delivery_log"),
	}
}

// BulkCreate 批量写入投递记录
func (r *deliveryLogRepository) BulkCreate(ctx context.Context, records []*models.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, record := range records {
		docs[i] = record
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to bulk create delivery records: %w", err)
	}
	return nil
}

// CountByTimeRange 统计时间窗口内的总数与成功数
func (r *deliveryLogRepository) CountByTimeRange(ctx context.Context, from, to time.Time) (models.DeliveryStats, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": from, "$lt": to}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return models.DeliveryStats{}, fmt.Errorf("failed to count delivery records: %w", err)
	}

	filter["success"] = true
	success, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return models.DeliveryStats{}, fmt.Errorf("failed to count successful delivery records: %w", err)
	}

	return models.DeliveryStats{Total: total, Success: success}, nil
}

// GroupByContentKind 按内容类型聚合时间窗口内的投递数
func (r *deliveryLogRepository) GroupByContentKind(ctx context.Context, from, to time.Time) ([]models.ContentKindCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"content_kind":   "$content_kind",
				"is_media_group": "$is_media_group",
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"content_kind":   "$_id.content_kind",
			"is_media_group": "$_id.is_media_group",
			"count":          1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate delivery records: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []models.ContentKindCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode delivery aggregation: %w", err)
	}
	return counts, nil
}

// EnsureIndexes 确保索引存在
func (r *deliveryLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// 时间窗口查询
		{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
		},
		// 批次查询
		{
			Keys: bson.D{{Key: "batch_id", Value: 1}},
		},
		// 按源/目标排查投递历史
		{
			Keys: bson.D{
				{Key: "source_chat_id", Value: 1},
				{Key: "target_chat_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes for delivery_log: %w", err)
	}
	return nil
}
