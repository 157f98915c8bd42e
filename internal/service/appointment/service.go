package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
}

func NewService(appointments repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{appointments: appointments, patients: patients}
}

// Create books an explicit slot. Full slots are a conflict, never a silent
// reassignment.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	count, err := s.appointments.CountSlot(ctx, model.SlotKey{
		Ambulatorio: req.Ambulatorio,
		Data:        req.Data,
		Ora:         req.Ora,
		Tipo:        req.Tipo,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if count >= model.SlotCapacity {
		return nil, apperrors.Conflict(fmt.Sprintf("slot %s %s is full", req.Data, req.Ora), nil)
	}

	appointment := &model.Appointment{
		ID:             uuid.New().String(),
		PatientID:      patient.ID,
		PatientNome:    patient.Nome,
		PatientCognome: patient.Cognome,
		Ambulatorio:    req.Ambulatorio,
		Data:           req.Data,
		Ora:            req.Ora,
		Tipo:           req.Tipo,
		Prestazioni:    req.Prestazioni,
		Note:           req.Note,
		Stato:          model.AppointmentStatoDaFare,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Data != nil {
		appointment.Data = *req.Data
	}
	if req.Ora != nil {
		appointment.Ora = *req.Ora
	}
	if req.Prestazioni != nil {
		appointment.Prestazioni = *req.Prestazioni
	}
	if req.Note != nil {
		appointment.Note = *req.Note
	}
	if req.Stato != nil {
		appointment.Stato = *req.Stato
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.appointments.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}
