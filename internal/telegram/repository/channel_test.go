package repository

import (
	"context"
	"errors"
	"testing"

	"forward_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestChannelRepositoryAdd(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &channelRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		channel := &models.Channel{
			ChatID: -1001234567890,
			Kind:   models.ChannelKindSource,
		}
		if err := repo.Add(context.Background(), channel); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if !channel.Active || channel.AddedAt.IsZero() {
			t.Fatalf("expected active flag and added_at to be set: %+v", channel)
		}
	})

	mt.Run("duplicate maps to ErrChannelExists", func(mt *mtest.T) {
		repo := &channelRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Add(context.Background(), &models.Channel{
			ChatID: -1001234567890,
			Kind:   models.ChannelKindSource,
		})
		if !errors.Is(err, ErrChannelExists) {
			t.Fatalf("expected ErrChannelExists, got %v", err)
		}
	})
}

func TestChannelRepositoryRemove(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &channelRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := repo.Remove(context.Background(), -1001, models.ChannelKindTarget); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
	})

	mt.Run("missing maps to ErrChannelNotFound", func(mt *mtest.T) {
		repo := &channelRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Remove(context.Background(), -1001, models.ChannelKindTarget)
		if !errors.Is(err, ErrChannelNotFound) {
			t.Fatalf("expected ErrChannelNotFound, got %v", err)
		}
	})
}

func TestChannelRepositoryList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := &channelRepository{collection: mt.Coll}
		ns := collectionNamespace(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(
			0,
			ns,
			mtest.FirstBatch,
			bson.D{
				{Key: "chat_id", Value: int64(-1001)},
				{Key: "kind", Value: "target"},
				{Key: "title", Value: "目标频道A"},
				{Key: "active", Value: true},
			},
			bson.D{
				{Key: "chat_id", Value: int64(-1002)},
				{Key: "kind", Value: "target"},
				{Key: "active", Value: true},
			},
		))

		channels, err := repo.List(context.Background(), models.ChannelKindTarget)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(channels) != 2 {
			t.Fatalf("expected 2 channels, got %d", len(channels))
		}
		if channels[0].ChatID != -1001 || channels[0].Title != "目标频道A" {
			t.Fatalf("unexpected first channel: %+v", channels[0])
		}
	})
}

func TestUserRepositoryAdd(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("defaults role to admin", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{TelegramID: 123456789}
		if err := repo.Add(context.Background(), user); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Fatalf("expected admin role, got %q", user.Role)
		}
	})

	mt.Run("duplicate maps to ErrUserExists", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Add(context.Background(), &models.User{TelegramID: 123456789})
		if !errors.Is(err, ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}
