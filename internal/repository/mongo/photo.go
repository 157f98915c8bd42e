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

type photoRepository struct {
	coll *mongo.Collection
}

func NewPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &photoRepository{coll: db.Collection(collPhotos)}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	if _, err := r.coll.InsertOne(ctx, photo); err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *photoRepository) Get(ctx context.Context, id string) (*model.Photo, error) {
	var photo model.Photo
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&photo)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

func (r *photoRepository) ListByPatient(ctx context.Context, patientID string, site model.Ambulatorio, tipo string) ([]*model.Photo, error) {
	filter := bson.M{"patient_id": patientID, "ambulatorio": site}
	if tipo != "" {
		filter["tipo"] = tipo
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "data", Value: -1}}).SetLimit(100))
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	var out []*model.Photo
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode photos: %w", err)
	}
	return out, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *photoRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}
	return nil
}
