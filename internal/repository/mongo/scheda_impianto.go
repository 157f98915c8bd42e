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

type schedaImpiantoRepository struct {
	coll *mongo.Collection
}

func NewSchedaImpiantoRepository(db *mongo.Database) repository.SchedaImpiantoRepository {
	return &schedaImpiantoRepository{coll: db.Collection(collSchedeImpianto)}
}

func (r *schedaImpiantoRepository) Create(ctx context.Context, scheda *model.SchedaImpiantoPICC) error {
	if _, err := r.coll.InsertOne(ctx, scheda); err != nil {
		return fmt.Errorf("failed to create scheda impianto: %w", err)
	}
	return nil
}

func (r *schedaImpiantoRepository) Get(ctx context.Context, id string) (*model.SchedaImpiantoPICC, error) {
	var scheda model.SchedaImpiantoPICC
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&scheda)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheda impianto: %w", err)
	}
	return &scheda, nil
}

func (r *schedaImpiantoRepository) Update(ctx context.Context, scheda *model.SchedaImpiantoPICC) error {
	scheda.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": scheda.ID}, scheda)
	if err != nil {
		return fmt.Errorf("failed to update scheda impianto: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaImpiantoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete scheda impianto: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *schedaImpiantoRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaImpiantoPICC, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		return nil, fmt.Errorf("failed to list schede impianto: %w", err)
	}
	var schede []*model.SchedaImpiantoPICC
	if err := cursor.All(ctx, &schede); err != nil {
		return nil, fmt.Errorf("failed to decode schede impianto: %w", err)
	}
	return schede, nil
}

func (r *schedaImpiantoRepository) ListByDateRange(ctx context.Context, site model.Ambulatorio, from, to, tipoCatetere string) ([]*model.SchedaImpiantoPICC, error) {
	query := bson.M{
		"ambulatorio":   site,
		"data_impianto": bson.M{"$gte": from, "$lt": to},
	}
	if tipoCatetere != "" {
		query["tipo_catetere"] = tipoCatetere
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "data_impianto", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list schede impianto: %w", err)
	}
	var schede []*model.SchedaImpiantoPICC
	if err := cursor.All(ctx, &schede); err != nil {
		return nil, fmt.Errorf("failed to decode schede impianto: %w", err)
	}
	return schede, nil
}

func (r *schedaImpiantoRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete schede impianto: %w", err)
	}
	return nil
}
