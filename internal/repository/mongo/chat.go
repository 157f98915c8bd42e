package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

type chatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) repository.ChatRepository {
	return &chatRepository{coll: db.Collection(collChatHistory)}
}

func (r *chatRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// ListBySession returns the newest messages of a session in chronological
// order. The limit bounds how much history reaches the model prompt.
func (r *chatRepository) ListBySession(ctx context.Context, sessionID string, limit int64) ([]*model.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	var msgs []*model.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) ListSessions(ctx context.Context, userID string, site model.Ambulatorio) ([]*model.ChatSession, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "ambulatorio": site}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$session_id",
			"last_message":  bson.M{"$last": "$content"},
			"last_activity": bson.M{"$last": "$timestamp"},
			"messages":      bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_activity", Value: -1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	var sessions []*model.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode chat sessions: %w", err)
	}
	return sessions, nil
}

func (r *chatRepository) DeleteSession(ctx context.Context, sessionID, userID string) error {
	res, err := r.coll.DeleteMany(ctx, bson.M{"session_id": sessionID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *chatRepository) DeleteAll(ctx context.Context, userID string, site model.Ambulatorio) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID, "ambulatorio": site}); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return nil
}
