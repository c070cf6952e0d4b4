package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func collectionNamespace(mt *mtest.T) string {
	return fmt.Sprintf("%s.%s", mt.Coll.Database().Name(), mt.Coll.Name())
}

func TestDeliveryLogRepositoryBulkCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		records := []*models.DeliveryRecord{
			models.NewDeliveryRecord("batch-1", -1001, -2001, 10, "photo", "g1", true),
			models.NewDeliveryRecord("batch-1", -1001, -2002, 10, "photo", "g1", true),
		}

		if err := repo.BulkCreate(context.Background(), records); err != nil {
			t.Fatalf("BulkCreate failed: %v", err)
		}
	})

	mt.Run("empty slice is a no-op", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}

		if err := repo.BulkCreate(context.Background(), nil); err != nil {
			t.Fatalf("expected nil error for empty slice, got %v", err)
		}
	})

	mt.Run("write error", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Name:    "WriteError",
			Message: "mock write failure",
		}))

		err := repo.BulkCreate(context.Background(), []*models.DeliveryRecord{
			models.NewDeliveryRecord("batch-2", -1001, -2001, 11, "text", "", false),
		})
		if err == nil {
			t.Fatalf("expected error but got nil")
		}
		if !strings.Contains(err.Error(), "failed to bulk create delivery records") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestDeliveryLogRepositoryCountByTimeRange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}
		ns := collectionNamespace(mt)

		// CountDocuments 两次：总数与成功数
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 10}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 8}}),
		)

		stats, err := repo.CountByTimeRange(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
		if err != nil {
			t.Fatalf("CountByTimeRange failed: %v", err)
		}
		if stats.Total != 10 || stats.Success != 8 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		if got := stats.SuccessRate(); got != 80 {
			t.Fatalf("unexpected success rate: %v", got)
		}
	})

	mt.Run("query error", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "mock count failure",
		}))

		if _, err := repo.CountByTimeRange(context.Background(), time.Now().Add(-time.Hour), time.Now()); err == nil {
			t.Fatalf("expected error but got nil")
		}
	})
}

func TestDeliveryLogRepositoryGroupByContentKind(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &deliveryLogRepository{collection: mt.Coll}
		ns := collectionNamespace(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(
			0,
			ns,
			mtest.FirstBatch,
			bson.D{
				{Key: "content_kind", Value: "photo"},
				{Key: "is_media_group", Value: true},
				{Key: "count", Value: int64(6)},
			},
			bson.D{
				{Key: "content_kind", Value: "text"},
				{Key: "is_media_group", Value: false},
				{Key: "count", Value: int64(3)},
			},
		))

		counts, err := repo.GroupByContentKind(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
		if err != nil {
			t.Fatalf("GroupByContentKind failed: %v", err)
		}
		if len(counts) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(counts))
		}
		if counts[0].ContentKind != "photo" || !counts[0].IsMediaGroup || counts[0].Count != 6 {
			t.Fatalf("unexpected first group: %+v", counts[0])
		}
		if counts[1].ContentKind != "text" || counts[1].IsMediaGroup || counts[1].Count != 3 {
			t.Fatalf("unexpected second group: %+v", counts[1])
		}
	})
}

func TestDeliveryStatsSuccessRateEmpty(t *testing.T) {
	var stats models.DeliveryStats
	if got := stats.SuccessRate(); got != 0 {
		t.Fatalf("expected 0 for empty stats, got %v", got)
	}
}
