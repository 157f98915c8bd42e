package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

// Stores groups the repositories the service writes to. The cascade on delete
// spans every patient-owned collection.
type Stores struct {
	Patients       repository.PatientRepository
	Appointments   repository.AppointmentRepository
	SchedeImpianto repository.SchedaImpiantoRepository
	SchedeGestione repository.SchedaGestioneRepository
	SchedeMed      repository.SchedaMedRepository
	Prescrizioni   repository.PrescrizioneRepository
	Photos         repository.PhotoRepository
}

type Service struct {
	stores   Stores
	patients repository.PatientRepository
}

func NewService(stores Stores) *Service {
	return &Service{stores: stores, patients: stores.Patients}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	now := time.Now().UTC()
	patient := &model.Patient{
		ID:            uuid.New().String(),
		Nome:          req.Nome,
		Cognome:       req.Cognome,
		Tipo:          req.Tipo,
		Ambulatorio:   req.Ambulatorio,
		Status:        model.PatientStatusInCura,
		DataNascita:   req.DataNascita,
		CodiceFiscale: req.CodiceFiscale,
		Telefono:      req.Telefono,
		Email:         req.Email,
		MedicoBase:    req.MedicoBase,
		Anamnesi:      req.Anamnesi,
		TerapiaInAtto: req.TerapiaInAtto,
		Allergie:      req.Allergie,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		patient.Nome = *req.Nome
	}
	if req.Cognome != nil {
		patient.Cognome = *req.Cognome
	}
	if req.Tipo != nil {
		patient.Tipo = *req.Tipo
	}
	if req.DataNascita != nil {
		patient.DataNascita = *req.DataNascita
	}
	if req.CodiceFiscale != nil {
		patient.CodiceFiscale = *req.CodiceFiscale
	}
	if req.Telefono != nil {
		patient.Telefono = *req.Telefono
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.MedicoBase != nil {
		patient.MedicoBase = *req.MedicoBase
	}
	if req.Anamnesi != nil {
		patient.Anamnesi = *req.Anamnesi
	}
	if req.TerapiaInAtto != nil {
		patient.TerapiaInAtto = *req.TerapiaInAtto
	}
	if req.Allergie != nil {
		patient.Allergie = *req.Allergie
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// Delete removes the patient together with every record that belongs to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.patients.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.cascade(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) cascade(ctx context.Context, patientID string) error {
	for _, del := range []func(context.Context, string) error{
		s.stores.Appointments.DeleteByPatient,
		s.stores.SchedeImpianto.DeleteByPatient,
		s.stores.SchedeGestione.DeleteByPatient,
		s.stores.SchedeMed.DeleteByPatient,
		s.stores.Prescrizioni.DeleteByPatient,
		s.stores.Photos.DeleteByPatient,
	} {
		if err := del(ctx, patientID); err != nil {
			return err
		}
	}
	return nil
}

// BatchCreate inserts every acceptable patient and reports the rest as
// per-item errors. hasSite is the caller's site grant check.
func (s *Service) BatchCreate(ctx context.Context, req *model.BatchCreatePatientsRequest, hasSite func(model.Ambulatorio) bool) *model.BatchResult {
	result := &model.BatchResult{Patients: []model.BatchPatientRef{}, ErrorDetails: []model.BatchError{}}
	for i := range req.Patients {
		item := &req.Patients[i]
		name := item.Cognome + " " + item.Nome
		if !item.Ambulatorio.Valid() || !hasSite(item.Ambulatorio) {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: name, Error: "Non hai accesso a questo ambulatorio"})
			continue
		}
		if item.Ambulatorio == model.AmbulatorioVillaGinestre && item.Tipo != model.PatientTypePICC {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: name, Error: "Villa delle Ginestre gestisce solo pazienti PICC"})
			continue
		}
		created, err := s.Create(ctx, item)
		if err != nil {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: name, Error: err.Error()})
			continue
		}
		result.Patients = append(result.Patients, model.BatchPatientRef{ID: created.ID, Nome: created.FullName()})
	}
	result.Processed = len(result.Patients)
	result.Failed = len(result.ErrorDetails)
	return result
}

// BatchSetStatus moves every listed patient to the requested status. Discharge
// stamps today's date, returning to care clears it.
func (s *Service) BatchSetStatus(ctx context.Context, req *model.BatchStatusRequest, hasSite func(model.Ambulatorio) bool) *model.BatchResult {
	result := &model.BatchResult{Patients: []model.BatchPatientRef{}, ErrorDetails: []model.BatchError{}}
	for _, id := range req.PatientIDs {
		patient, ok := s.batchLoad(ctx, id, hasSite, result)
		if !ok {
			continue
		}
		patient.Status = req.Status
		switch req.Status {
		case model.PatientStatusDimesso:
			patient.DataDimissione = time.Now().Format("2006-01-02")
			patient.DischargeNotes = req.DischargeNotes
		case model.PatientStatusSospeso:
			patient.SuspendNotes = req.SuspendNotes
		case model.PatientStatusInCura:
			patient.DataDimissione = ""
		}
		patient.UpdatedAt = time.Now().UTC()
		if err := s.patients.Update(ctx, patient); err != nil {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: err.Error()})
			continue
		}
		result.Patients = append(result.Patients, model.BatchPatientRef{ID: patient.ID, Nome: patient.FullName()})
	}
	result.Processed = len(result.Patients)
	result.Failed = len(result.ErrorDetails)
	return result
}

// BatchDelete removes every listed patient with the full cascade.
func (s *Service) BatchDelete(ctx context.Context, req *model.BatchDeleteRequest, hasSite func(model.Ambulatorio) bool) *model.BatchResult {
	result := &model.BatchResult{Patients: []model.BatchPatientRef{}, ErrorDetails: []model.BatchError{}}
	for _, id := range req.PatientIDs {
		patient, ok := s.batchLoad(ctx, id, hasSite, result)
		if !ok {
			continue
		}
		if err := s.patients.Delete(ctx, id); err != nil {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: err.Error()})
			continue
		}
		if err := s.cascade(ctx, id); err != nil {
			result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: err.Error()})
			continue
		}
		result.Patients = append(result.Patients, model.BatchPatientRef{ID: patient.ID, Nome: patient.FullName()})
	}
	result.Processed = len(result.Patients)
	result.Failed = len(result.ErrorDetails)
	return result
}

func (s *Service) batchLoad(ctx context.Context, id string, hasSite func(model.Ambulatorio) bool, result *model.BatchResult) (*model.Patient, bool) {
	patient, err := s.patients.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: "Paziente non trovato"})
		return nil, false
	}
	if err != nil {
		result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: err.Error()})
		return nil, false
	}
	if !hasSite(patient.Ambulatorio) {
		result.ErrorDetails = append(result.ErrorDetails, model.BatchError{Patient: id, Error: "Non hai accesso a questo ambulatorio"})
		return nil, false
	}
	return patient, true
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}
