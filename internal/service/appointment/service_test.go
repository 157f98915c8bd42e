package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

type stubPatients struct {
	patient *model.Patient
}

func (s *stubPatients) Create(_ context.Context, _ *model.Patient) error { return nil }

func (s *stubPatients) Get(_ context.Context, id string) (*model.Patient, error) {
	if s.patient != nil && s.patient.ID == id {
		return s.patient, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubPatients) Update(_ context.Context, _ *model.Patient) error { return nil }

func (s *stubPatients) SetStatus(_ context.Context, _ string, _ model.PatientStatus, _ *string) error {
	return nil
}

func (s *stubPatients) Delete(_ context.Context, _ string) error { return nil }

func (s *stubPatients) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

func (s *stubPatients) FindOneBySurname(_ context.Context, _ model.Ambulatorio, _ string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (s *stubPatients) FindOneBySurnameAndNamePrefix(_ context.Context, _ model.Ambulatorio, _, _ string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (s *stubPatients) FindOneBySurnamePrefix(_ context.Context, _ model.Ambulatorio, _ string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (s *stubPatients) FindOneByFullNameTokens(_ context.Context, _ model.Ambulatorio, _ []string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

type stubAppointments struct {
	slotCount int64
	created   []*model.Appointment
}

func (s *stubAppointments) Create(_ context.Context, a *model.Appointment) error {
	s.created = append(s.created, a)
	return nil
}

func (s *stubAppointments) Get(_ context.Context, _ string) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}

func (s *stubAppointments) Update(_ context.Context, _ *model.Appointment) error { return nil }

func (s *stubAppointments) Delete(_ context.Context, _ string) error { return repository.ErrNotFound }

func (s *stubAppointments) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) FindOne(_ context.Context, _ *model.AppointmentFilters) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}

func (s *stubAppointments) CountSlot(_ context.Context, _ model.SlotKey) (int64, error) {
	return s.slotCount, nil
}

func (s *stubAppointments) ListByPatient(_ context.Context, _ string) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) DeleteByPatient(_ context.Context, _ string) error { return nil }

func TestCreate(t *testing.T) {
	patient := &model.Patient{ID: "p-1", Nome: "Anna", Cognome: "Verdi", Tipo: model.PatientTypePICC}
	req := &model.CreateAppointmentRequest{
		PatientID:   "p-1",
		Ambulatorio: model.AmbulatorioPTACentro,
		Data:        "2026-03-15",
		Ora:         "13:00",
		Tipo:        "PICC",
	}

	t.Run("books with spare capacity", func(t *testing.T) {
		appts := &stubAppointments{slotCount: 1}
		svc := NewService(appts, &stubPatients{patient: patient})

		created, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Verdi", created.PatientCognome)
		assert.Equal(t, model.AppointmentStatoDaFare, created.Stato)
		assert.Len(t, appts.created, 1)
	})

	t.Run("full slot is a conflict", func(t *testing.T) {
		appts := &stubAppointments{slotCount: model.SlotCapacity}
		svc := NewService(appts, &stubPatients{patient: patient})

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, appts.created)
	})

	t.Run("unknown patient", func(t *testing.T) {
		svc := NewService(&stubAppointments{}, &stubPatients{})
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDelete(t *testing.T) {
	svc := NewService(&stubAppointments{}, &stubPatients{})
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
