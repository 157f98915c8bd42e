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

type schedaMedRepository struct {
	coll *mongo.Collection
}

func NewSchedaMedRepository(db *mongo.Database) repository.SchedaMedRepository {
	return &schedaMedRepository{coll: db.Collection(collSchedeMed)}
}

func (r *schedaMedRepository) Create(ctx context.Context, scheda *model.SchedaMedicazioneMED) error {
	if _, err := r.coll.InsertOne(ctx, scheda); err != nil {
		return fmt.Errorf("failed to create scheda medicazione: %w", err)
	}
	return nil
}

func (r *schedaMedRepository) Get(ctx context.Context, id string) (*model.SchedaMedicazioneMED, error) {
	var scheda model.SchedaMedicazioneMED
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&scheda)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheda medicazione: %w", err)
	}
	return &scheda, nil
}

func (r *schedaMedRepository) Update(ctx context.Context, scheda *model.SchedaMedicazioneMED) error {
	scheda.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": scheda.ID}, scheda)
	if err != nil {
		return fmt.Errorf("failed to update scheda medicazione: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaMedRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete scheda medicazione: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaMedRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaMedicazioneMED, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "data_compilazione", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list schede medicazione: %w", err)
	}
	var schede []*model.SchedaMedicazioneMED
	if err := cursor.All(ctx, &schede); err != nil {
		return nil, fmt.Errorf("failed to decode schede medicazione: %w", err)
	}
	return schede, nil
}

// LatestByPatient returns the most recently created record, which is the one
// the copy operation clones.
func (r *schedaMedRepository) LatestByPatient(ctx context.Context, site model.Ambulatorio, patientID string) (*model.SchedaMedicazioneMED, error) {
	var scheda model.SchedaMedicazioneMED
	err := r.coll.FindOne(ctx,
		bson.M{"patient_id": patientID, "ambulatorio": site},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&scheda)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scheda medicazione: %w", err)
	}
	return &scheda, nil
}

func (r *schedaMedRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete schede medicazione: %w", err)
	}
	return nil
}
