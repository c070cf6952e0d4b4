package repository

import (
	"context"
	"testing"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSettingsRepositoryLoadDefaultsWhenMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no document", func(mt *mtest.T) {
		repo := &settingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, collectionNamespace(mt), mtest.FirstBatch))

		settings, err := repo.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !settings.Forward.PreserveSender || !settings.Forward.AddSourceInfo {
			t.Fatalf("unexpected defaults: %+v", settings.Forward)
		}
		if settings.Forward.MediaGroupTimeout != 3 {
			t.Fatalf("expected default media group timeout 3, got %d", settings.Forward.MediaGroupTimeout)
		}
		if settings.Forward.MaxForwardsPerMinute != 60 {
			t.Fatalf("expected default max forwards 60, got %d", settings.Forward.MaxForwardsPerMinute)
		}
		if !settings.Notification.NotifyAdminOnError || !settings.Notification.DailyReport {
			t.Fatalf("unexpected notification defaults: %+v", settings.Notification)
		}
	})
}

func TestSettingsRepositoryLoadMergesDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("old document without newer fields", func(mt *mtest.T) {
		repo := &settingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0,
			collectionNamespace(mt),
			mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: models.BotSettingsDocID},
				{Key: "forward", Value: bson.D{
					{Key: "preserve_sender", Value: false},
					{Key: "delay_seconds", Value: 5},
					// media_group_timeout 与 max_forwards_per_minute 缺失
				}},
			},
		))

		settings, err := repo.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if settings.Forward.PreserveSender {
			t.Fatalf("expected preserve_sender=false from stored document")
		}
		if settings.Forward.DelaySeconds != 5 {
			t.Fatalf("expected delay 5, got %d", settings.Forward.DelaySeconds)
		}
		if settings.Forward.MediaGroupTimeout != 3 || settings.Forward.MaxForwardsPerMinute != 60 {
			t.Fatalf("expected merged defaults, got %+v", settings.Forward)
		}
		if settings.Forward.FilterContentTypes == nil || settings.Forward.KeywordFilter == nil {
			t.Fatalf("expected non-nil filter slices")
		}
	})
}

func TestSettingsRepositorySave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		repo := &settingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		settings := &models.BotSettings{
			Forward:      models.DefaultForwardSettings(),
			Notification: models.DefaultNotificationSettings(),
		}
		if err := repo.Save(context.Background(), settings); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if settings.ID != models.BotSettingsDocID {
			t.Fatalf("expected fixed doc id, got %q", settings.ID)
		}
	})
}
