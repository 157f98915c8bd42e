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

type prescrizioneRepository struct {
	coll *mongo.Collection
}

func NewPrescrizioneRepository(db *mongo.Database) repository.PrescrizioneRepository {
	return &prescrizioneRepository{coll: db.Collection(collPrescrizioni)}
}

func (r *prescrizioneRepository) Create(ctx context.Context, p *model.Prescrizione) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create prescrizione: %w", err)
	}
	return nil
}

func (r *prescrizioneRepository) Update(ctx context.Context, p *model.Prescrizione) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update prescrizione: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *prescrizioneRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete prescrizione: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *prescrizioneRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Prescrizione, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "mese", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list prescrizioni: %w", err)
	}
	var out []*model.Prescrizione
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode prescrizioni: %w", err)
	}
	return out, nil
}

func (r *prescrizioneRepository) FindByPatientAndMese(ctx context.Context, patientID, mese string) (*model.Prescrizione, error) {
	var p model.Prescrizione
	err := r.coll.FindOne(ctx, bson.M{"patient_id": patientID, "mese": mese}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescrizione: %w", err)
	}
	return &p, nil
}

func (r *prescrizioneRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete prescrizioni: %w", err)
	}
	return nil
}
