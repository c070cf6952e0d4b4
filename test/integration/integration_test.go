//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	mongoclient "forward_bot/internal/mongo"
	"forward_bot/internal/telegram/models"
	"forward_bot/internal/telegram/repository"

	"github.com/google/uuid"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

func TestDeliveryLogIntegrationFlow(t *testing.T) {
	t.Parallel()

	db := setupIntegrationDatabase(t)
	deliveryLog := repository.NewDeliveryLogRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := deliveryLog.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	batchID := uuid.New().String()
	records := []*models.DeliveryRecord{
		newRecord(batchID, 101, "photo", "group-1", true, true),
		newRecord(batchID, 102, "photo", "group-1", true, true),
		newRecord(batchID, 103, "text", "", false, false),
	}
	if err := deliveryLog.BulkCreate(ctx, records); err != nil {
		t.Fatalf("failed to bulk create delivery records: %v", err)
	}

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	stats, err := deliveryLog.CountByTimeRange(ctx, from, to)
	if err != nil {
		t.Fatalf("failed to count delivery records: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("unexpected total: got %d, want %d", stats.Total, 3)
	}
	if stats.Success != 2 {
		t.Fatalf("unexpected success count: got %d, want %d", stats.Success, 2)
	}

	kinds, err := deliveryLog.GroupByContentKind(ctx, from, to)
	if err != nil {
		t.Fatalf("failed to group delivery records: %v", err)
	}
	counts := make(map[string]int64, len(kinds))
	for _, kc := range kinds {
		counts[kc.ContentKind] += kc.Count
	}
	if counts["photo"] != 2 {
		t.Fatalf("unexpected photo count: got %d, want %d", counts["photo"], 2)
	}
	if counts["text"] != 1 {
		t.Fatalf("unexpected text count: got %d, want %d", counts["text"], 1)
	}
}

func TestChannelRepositoryIntegrationFlow(t *testing.T) {
	t.Parallel()

	db := setupIntegrationDatabase(t)
	channelRepo := repository.NewChannelRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := channelRepo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	source := &models.Channel{
		ChatID:    -20001,
		Kind:      models.ChannelKindSource,
		Active:    true,
		AddedAt:   time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := channelRepo.Add(ctx, source); err != nil {
		t.Fatalf("failed to add source channel: %v", err)
	}

	// 同一 chat 可同时作为源与目标
	target := &models.Channel{
		ChatID:    -20001,
		Kind:      models.ChannelKindTarget,
		Active:    true,
		AddedAt:   time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := channelRepo.Add(ctx, target); err != nil {
		t.Fatalf("failed to add target channel: %v", err)
	}

	// 重复添加同角色触发唯一索引
	if err := channelRepo.Add(ctx, source); err != repository.ErrChannelExists {
		t.Fatalf("expected ErrChannelExists, got %v", err)
	}

	if err := channelRepo.UpdateTitle(ctx, -20001, models.ChannelKindSource, "测试频道"); err != nil {
		t.Fatalf("failed to update title: %v", err)
	}

	sources, err := channelRepo.List(ctx, models.ChannelKindSource)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("unexpected source count: got %d, want %d", len(sources), 1)
	}
	if sources[0].Title != "测试频道" {
		t.Fatalf("unexpected title: got %q, want %q", sources[0].Title, "测试频道")
	}

	if err := channelRepo.Remove(ctx, -20001, models.ChannelKindSource); err != nil {
		t.Fatalf("failed to remove source channel: %v", err)
	}
	if err := channelRepo.Remove(ctx, -20001, models.ChannelKindSource); err != repository.ErrChannelNotFound {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func newRecord(batchID string, messageID int, kind, groupID string, isGroup, success bool) *models.DeliveryRecord {
	rec := models.NewDeliveryRecord(batchID, -20001, -30001, messageID, kind, groupID, isGroup)
	rec.Success = success
	if !success {
		rec.ErrorMessage = "chat not found"
	}
	return rec
}

func setupIntegrationDatabase(t *testing.T) *mongodriver.Database {
	t.Helper()

	uri := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	baseDatabase := envOrDefault("TEST_DATABASE", "test_forward_bot")
	databaseName := fmt.Sprintf("%s_%d", baseDatabase, time.Now().UnixNano())

	client, err := mongoclient.NewClient(mongoclient.Config{
		URI:      uri,
		Database: databaseName,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		if isCIEnvironment() {
			t.Fatalf("failed to connect MongoDB in CI: %v", err)
		}
		t.Skipf("MongoDB is not available locally, skip integration test: %v", err)
		return nil
	}

	db := client.Database()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := db.Drop(ctx); err != nil {
			t.Errorf("failed to drop integration database %s: %v", databaseName, err)
		}
		if err := client.Close(ctx); err != nil {
			t.Errorf("failed to close MongoDB connection: %v", err)
		}
	})

	return db
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func isCIEnvironment() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}
