package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

type outboxRepository struct {
	coll *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) repository.OutboxRepository {
	return &outboxRepository{coll: db.Collection(collOutbox)}
}

func (r *outboxRepository) Insert(ctx context.Context, event *model.OutboxEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"status": model.OutboxStatusPending},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: 1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	var events []*model.OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id string, status model.OutboxStatus, errorMessage string) error {
	update := bson.M{
		"status":        status,
		"error_message": errorMessage,
	}
	if status == model.OutboxStatusProcessed {
		now := time.Now().UTC()
		update["processed_at"] = now
	}
	ops := bson.M{"$set": update}
	if status == model.OutboxStatusFailed {
		ops["$inc"] = bson.M{"retry_count": 1}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, ops)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
