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

type appointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &appointmentRepository{coll: db.Collection(collAppointments)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appointment)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": appointment.ID}, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func filterQuery(filters *model.AppointmentFilters) bson.M {
	query := bson.M{}
	if filters.Ambulatorio != "" {
		query["ambulatorio"] = filters.Ambulatorio
	}
	if filters.PatientID != "" {
		query["patient_id"] = filters.PatientID
	}
	if filters.Data != "" {
		query["data"] = filters.Data
	}
	if filters.DataFrom != "" || filters.DataTo != "" {
		dataRange := bson.M{}
		if filters.DataFrom != "" {
			dataRange["$gte"] = filters.DataFrom
		}
		if filters.DataTo != "" {
			dataRange["$lt"] = filters.DataTo
		}
		query["data"] = dataRange
	}
	if filters.Ora != "" {
		query["ora"] = filters.Ora
	}
	if filters.Stato != "" {
		query["stato"] = filters.Stato
	}
	return query
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: 1}, {Key: "ora", Value: 1}})
	if filters.Limit > 0 {
		opts.SetLimit(filters.Limit)
	}

	cursor, err := r.coll.Find(ctx, filterQuery(filters), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	var appointments []*model.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindOne(ctx context.Context, filters *model.AppointmentFilters) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.coll.FindOne(ctx, filterQuery(filters)).Decode(&appointment)
	if err == mongo.ErrNoDocuments {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) CountSlot(ctx context.Context, key model.SlotKey) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"ambulatorio": key.Ambulatorio,
		"data":        key.Data,
		"ora":         key.Ora,
		"tipo":        key.Tipo,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count slot: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	var appointments []*model.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"patient_id": patientID}); err != nil {
		return fmt.Errorf("failed to delete appointments: %w", err)
	}
	return nil
}
