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

type schedaGestioneRepository struct {
	coll *mongo.Collection
}

func NewSchedaGestioneRepository(db *mongo.Database) repository.SchedaGestioneRepository {
	return &schedaGestioneRepository{coll: db.Collection(collSchedeGestione)}
}

func (r *schedaGestioneRepository) Create(ctx context.Context, scheda *model.SchedaGestionePICC) error {
	if _, err := r.coll.InsertOne(ctx, scheda); err != nil {
		return fmt.Errorf("failed to create scheda gestione: %w", err)
	}
	return nil
}

func (r *schedaGestioneRepository) Get(ctx context.Context, id string) (*model.SchedaGestionePICC, error) {
	var scheda model.SchedaGestionePICC
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&scheda)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheda gestione: %w", err)
	}
	return &scheda, nil
}

func (r *schedaGestioneRepository) Update(ctx context.Context, scheda *model.SchedaGestionePICC) error {
	scheda.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": scheda.ID}, scheda)
	if err != nil {
		return fmt.Errorf("failed to update scheda gestione: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaGestioneRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete scheda gestione: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaGestioneRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaGestionePICC, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "mese", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list schede gestione: %w", err)
	}
	var schede []*model.SchedaGestionePICC
	if err := cursor.All(ctx, &schede); err != nil {
		return nil, fmt.Errorf("failed to decode schede gestione: %w", err)
	}
	return schede, nil
}

func (r *schedaGestioneRepository) LatestByPatient(ctx context.Context, site model.Ambulatorio, patientID string) (*model.SchedaGestionePICC, error) {
	var scheda model.SchedaGestionePICC
	err := r.coll.FindOne(ctx,
		bson.M{"patient_id": patientID, "ambulatorio": site},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&scheda)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scheda gestione: %w", err)
	}
	return &scheda, nil
}

// SetGiorno writes one day sub-entry without touching the rest of the month.
func (r *schedaGestioneRepository) SetGiorno(ctx context.Context, id, dayKey string, entry map[string]interface{}) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{
			"giorni." + dayKey: entry,
			"updated_at":       time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set giorno: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaGestioneRepository) UnsetGiorno(ctx context.Context, id, dayKey string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$unset": bson.M{"giorni." + dayKey: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to unset giorno: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaGestioneRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete schede gestione: %w", err)
	}
	return nil
}
