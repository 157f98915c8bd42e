package scheda

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

// Service is the clinical-forms layer: implant, dressing and monthly
// management records plus the per-month prescription notes.
type Service struct {
	impianto     repository.SchedaImpiantoRepository
	med          repository.SchedaMedRepository
	gestione     repository.SchedaGestioneRepository
	prescrizioni repository.PrescrizioneRepository
}

func NewService(
	impianto repository.SchedaImpiantoRepository,
	med repository.SchedaMedRepository,
	gestione repository.SchedaGestioneRepository,
	prescrizioni repository.PrescrizioneRepository,
) *Service {
	return &Service{impianto: impianto, med: med, gestione: gestione, prescrizioni: prescrizioni}
}

func (s *Service) CreateImpianto(ctx context.Context, scheda *model.SchedaImpiantoPICC) (*model.SchedaImpiantoPICC, error) {
	scheda.ID = uuid.New().String()
	now := time.Now().UTC()
	scheda.CreatedAt = now
	scheda.UpdatedAt = now
	if err := s.impianto.Create(ctx, scheda); err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) GetImpianto(ctx context.Context, id string) (*model.SchedaImpiantoPICC, error) {
	scheda, err := s.impianto.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("scheda impianto", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) UpdateImpianto(ctx context.Context, scheda *model.SchedaImpiantoPICC) error {
	err := s.impianto.Update(ctx, scheda)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda impianto", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DeleteImpianto(ctx context.Context, id string) error {
	err := s.impianto.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda impianto", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListImpiantoByPatient(ctx context.Context, patientID string) ([]*model.SchedaImpiantoPICC, error) {
	schede, err := s.impianto.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return schede, nil
}

func (s *Service) CreateMed(ctx context.Context, scheda *model.SchedaMedicazioneMED) (*model.SchedaMedicazioneMED, error) {
	scheda.ID = uuid.New().String()
	now := time.Now().UTC()
	scheda.CreatedAt = now
	scheda.UpdatedAt = now
	if scheda.DataCompilazione == "" {
		scheda.DataCompilazione = now.Format("2006-01-02")
	}
	if err := s.med.Create(ctx, scheda); err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) GetMed(ctx context.Context, id string) (*model.SchedaMedicazioneMED, error) {
	scheda, err := s.med.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("scheda medicazione", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) UpdateMed(ctx context.Context, scheda *model.SchedaMedicazioneMED) error {
	err := s.med.Update(ctx, scheda)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda medicazione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DeleteMed(ctx context.Context, id string) error {
	err := s.med.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda medicazione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListMedByPatient(ctx context.Context, patientID string) ([]*model.SchedaMedicazioneMED, error) {
	schede, err := s.med.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return schede, nil
}

// CreateGestione opens the patient's management record for one month. One
// record per month per patient.
func (s *Service) CreateGestione(ctx context.Context, scheda *model.SchedaGestionePICC) (*model.SchedaGestionePICC, error) {
	scheda.ID = uuid.New().String()
	now := time.Now().UTC()
	scheda.CreatedAt = now
	scheda.UpdatedAt = now
	if scheda.Mese == "" {
		scheda.Mese = now.Format("2006-01")
	}
	if scheda.Giorni == nil {
		scheda.Giorni = make(map[string]map[string]interface{})
	}
	if err := s.gestione.Create(ctx, scheda); err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) GetGestione(ctx context.Context, id string) (*model.SchedaGestionePICC, error) {
	scheda, err := s.gestione.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("scheda gestione", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return scheda, nil
}

func (s *Service) UpdateGestione(ctx context.Context, scheda *model.SchedaGestionePICC) error {
	err := s.gestione.Update(ctx, scheda)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda gestione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DeleteGestione(ctx context.Context, id string) error {
	err := s.gestione.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda gestione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListGestioneByPatient(ctx context.Context, patientID string) ([]*model.SchedaGestionePICC, error) {
	schede, err := s.gestione.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return schede, nil
}

func (s *Service) SetGestioneGiorno(ctx context.Context, id, dayKey string, entry map[string]interface{}) error {
	err := s.gestione.SetGiorno(ctx, id, dayKey, entry)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("scheda gestione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// UpsertPrescrizione writes the prescription text for one patient-month,
// creating the record on first write.
func (s *Service) UpsertPrescrizione(ctx context.Context, patientID string, site model.Ambulatorio, mese, testo string) (*model.Prescrizione, error) {
	existing, err := s.prescrizioni.FindByPatientAndMese(ctx, patientID, mese)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}
	now := time.Now().UTC()
	if existing != nil {
		existing.Testo = testo
		if err := s.prescrizioni.Update(ctx, existing); err != nil {
			return nil, apperrors.Internal(err)
		}
		return existing, nil
	}
	p := &model.Prescrizione{
		ID:          uuid.New().String(),
		PatientID:   patientID,
		Ambulatorio: site,
		Mese:        mese,
		Testo:       testo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.prescrizioni.Create(ctx, p); err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) ListPrescrizioniByPatient(ctx context.Context, patientID string) ([]*model.Prescrizione, error) {
	out, err := s.prescrizioni.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) DeletePrescrizione(ctx context.Context, id string) error {
	err := s.prescrizioni.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("prescrizione", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
