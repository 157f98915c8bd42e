package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

type patientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) repository.PatientRepository {
	return &patientRepository{coll: db.Collection(collPatients)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var patient model.Patient
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": patient.ID}, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetStatus patches the lifecycle fields only. A nil dataDimissione leaves the
// discharge date untouched; an empty value unsets it.
func (r *patientRepository) SetStatus(ctx context.Context, id string, status model.PatientStatus, dataDimissione *string) error {
	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	if dataDimissione != nil {
		if *dataDimissione == "" {
			update["$unset"] = bson.M{"data_dimissione": ""}
		} else {
			set["data_dimissione"] = *dataDimissione
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set patient status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := bson.M{"ambulatorio": filters.Ambulatorio}
	if filters.Tipo != "" {
		query["tipo"] = filters.Tipo
	}
	if filters.Status != "" {
		query["status"] = filters.Status
	}
	if filters.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filters.Search), Options: "i"}
		query["$or"] = bson.A{bson.M{"cognome": re}, bson.M{"nome": re}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "cognome", Value: 1}, {Key: "nome", Value: 1}})
	if filters.Limit > 0 {
		opts.SetLimit(filters.Limit)
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	var patients []*model.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) FindOneBySurname(ctx context.Context, site model.Ambulatorio, surname string) (*model.Patient, error) {
	return r.findOne(ctx, bson.M{
		"ambulatorio": site,
		"cognome":     exactInsensitive(surname),
	})
}

func (r *patientRepository) FindOneBySurnameAndNamePrefix(ctx context.Context, site model.Ambulatorio, surname, namePrefix string) (*model.Patient, error) {
	return r.findOne(ctx, bson.M{
		"ambulatorio": site,
		"cognome":     exactInsensitive(surname),
		"nome":        prefixInsensitive(namePrefix),
	})
}

func (r *patientRepository) FindOneBySurnamePrefix(ctx context.Context, site model.Ambulatorio, prefix string) (*model.Patient, error) {
	return r.findOne(ctx, bson.M{
		"ambulatorio": site,
		"cognome":     prefixInsensitive(prefix),
	})
}

// FindOneByFullNameTokens is the last-resort lookup: every token must appear
// somewhere in the lowercased "cognome nome" concatenation. Ties are broken by
// the store's natural order, which is not guaranteed stable.
func (r *patientRepository) FindOneByFullNameTokens(ctx context.Context, site model.Ambulatorio, tokens []string) (*model.Patient, error) {
	conditions := bson.A{}
	for _, tok := range tokens {
		conditions = append(conditions, bson.M{
			"full_name": primitive.Regex{Pattern: regexp.QuoteMeta(tok), Options: "i"},
		})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ambulatorio": site}}},
		{{Key: "$addFields", Value: bson.M{
			"full_name": bson.M{"$concat": bson.A{
				bson.M{"$toLower": "$cognome"}, " ", bson.M{"$toLower": "$nome"},
			}},
		}}},
		{{Key: "$match", Value: bson.M{"$and": conditions}}},
		{{Key: "$project", Value: bson.M{"full_name": 0}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	var results []*model.Patient
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}
	if len(results) == 0 {
		return nil, repository.ErrNotFound
	}
	return results[0], nil
}

func (r *patientRepository) findOne(ctx context.Context, query bson.M) (*model.Patient, error) {
	var patient model.Patient
	err := r.coll.FindOne(ctx, query).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}
	return &patient, nil
}

func exactInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func prefixInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
}
