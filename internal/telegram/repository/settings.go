package repository

import (
	"context"
	"errors"
	"fmt"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository 创建设置仓储实例
func NewSettingsRepository(db *mongo.Database) SettingsRepository {
	return &settingsRepository{
		collection: db.Collection("bot_config"),
	}
}

// Load 读取设置文档；文档不存在时返回默认设置。
// 旧文档缺失的字段由 bson 解码置零后再合并默认值，新增字段不破坏旧数据。
func (r *settingsRepository) Load(ctx context.Context) (*models.BotSettings, error) {
	var settings models.BotSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.BotSettingsDocID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.BotSettings{
				ID:           models.BotSettingsDocID,
				Forward:      models.DefaultForwardSettings(),
				Notification: models.DefaultNotificationSettings(),
			}, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.ID = models.BotSettingsDocID
	mergeDefaults(&settings)
	return &settings, nil
}

// Save 保存设置文档（upsert）
func (r *settingsRepository) Save(ctx context.Context, settings *models.BotSettings) error {
	settings.ID = models.BotSettingsDocID
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.BotSettingsDocID}, settings, opts)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// mergeDefaults 为旧文档缺失的字段补默认值
func mergeDefaults(s *models.BotSettings) {
	defaults := models.DefaultForwardSettings()
	if s.Forward.MaxForwardsPerMinute <= 0 {
		s.Forward.MaxForwardsPerMinute = defaults.MaxForwardsPerMinute
	}
	if s.Forward.MediaGroupTimeout <= 0 {
		s.Forward.MediaGroupTimeout = defaults.MediaGroupTimeout
	}
	if s.Forward.FilterContentTypes == nil {
		s.Forward.FilterContentTypes = []string{}
	}
	if s.Forward.KeywordFilter == nil {
		s.Forward.KeywordFilter = []string{}
	}
}
