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

type undoRepository struct {
	coll *mongo.Collection
}

func NewUndoRepository(db *mongo.Database) repository.UndoRepository {
	return &undoRepository{coll: db.Collection(collUndoHistory)}
}

func (r *undoRepository) Insert(ctx context.Context, entry *model.UndoEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert undo entry: %w", err)
	}
	return nil
}

func (r *undoRepository) Get(ctx context.Context, id, userID string, site model.Ambulatorio) (*model.UndoEntry, error) {
	var entry model.UndoEntry
	err := r.coll.FindOne(ctx, bson.M{
		"id":          id,
		"user_id":     userID,
		"ambulatorio": site,
	}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get undo entry: %w", err)
	}
	return &entry, nil
}

func (r *undoRepository) Latest(ctx context.Context, userID string, site model.Ambulatorio) (*model.UndoEntry, error) {
	var entry model.UndoEntry
	err := r.coll.FindOne(ctx,
		bson.M{"user_id": userID, "ambulatorio": site},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest undo entry: %w", err)
	}
	return &entry, nil
}

func (r *undoRepository) List(ctx context.Context, userID string, site model.Ambulatorio, limit int64) ([]*model.UndoEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID, "ambulatorio": site}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list undo entries: %w", err)
	}
	var entries []*model.UndoEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode undo entries: %w", err)
	}
	return entries, nil
}

func (r *undoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete undo entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *undoRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to delete undo entries: %w", err)
	}
	return nil
}
