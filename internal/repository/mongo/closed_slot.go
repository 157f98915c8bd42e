package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

type closedSlotRepository struct {
	coll *mongo.Collection
}

func NewClosedSlotRepository(db *mongo.Database) repository.ClosedSlotRepository {
	return &closedSlotRepository{coll: db.Collection(collClosedSlots)}
}

func (r *closedSlotRepository) Create(ctx context.Context, slot *model.ClosedSlot) error {
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to create closed slot: %w", err)
	}
	return nil
}

func (r *closedSlotRepository) Get(ctx context.Context, id string) (*model.ClosedSlot, error) {
	var slot model.ClosedSlot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get closed slot: %w", err)
	}
	return &slot, nil
}

func (r *closedSlotRepository) Exists(ctx context.Context, site model.Ambulatorio, data, ora, tipo string) (bool, error) {
	filter := bson.M{"ambulatorio": site, "data": data, "ora": ora, "tipo": tipo}
	if ora == "" {
		filter["ora"] = bson.M{"$in": bson.A{nil, ""}}
	}
	if tipo == "" {
		filter["tipo"] = bson.M{"$in": bson.A{nil, ""}}
	}
	err := r.coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check closed slot: %w", err)
	}
	return true, nil
}

func (r *closedSlotRepository) List(ctx context.Context, filters *model.ClosedSlotFilters) ([]*model.ClosedSlot, error) {
	filter := bson.M{"ambulatorio": filters.Ambulatorio}
	if filters.Data != "" {
		filter["data"] = filters.Data
	} else if filters.DataFrom != "" && filters.DataTo != "" {
		filter["data"] = bson.M{"$gte": filters.DataFrom, "$lte": filters.DataTo}
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed slots: %w", err)
	}
	var out []*model.ClosedSlot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode closed slots: %w", err)
	}
	return out, nil
}

func (r *closedSlotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete closed slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *closedSlotRepository) DeleteByDay(ctx context.Context, site model.Ambulatorio, data string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"ambulatorio": site, "data": data})
	if err != nil {
		return 0, fmt.Errorf("failed to delete closed slots: %w", err)
	}
	return res.DeletedCount, nil
}
