package undo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	"github.com/medhub/ambulatorio-api/pkg/logger"
)

// ErrNothingToUndo is returned when the ledger holds no entry matching the
// request.
var ErrNothingToUndo = errors.New("undo: nothing to undo")

// Stores groups every repository a reversal may have to touch.
type Stores struct {
	Undo           repository.UndoRepository
	Patients       repository.PatientRepository
	Appointments   repository.AppointmentRepository
	SchedeImpianto repository.SchedaImpiantoRepository
	SchedeGestione repository.SchedaGestioneRepository
	SchedeMed      repository.SchedaMedRepository
	Prescrizioni   repository.PrescrizioneRepository
}

// Service keeps the per-user reversible-action ledger and performs reversals.
// Reversals themselves are never recorded, so an undo cannot be undone.
type Service struct {
	stores Stores
	logger *logger.Logger
}

func NewService(stores Stores, logger *logger.Logger) *Service {
	return &Service{stores: stores, logger: logger}
}

// Record appends one reversible action and evicts entries beyond the
// retention window for that (user, site) pair. Eviction failures are logged
// and swallowed; the forward action already succeeded.
func (s *Service) Record(ctx context.Context, userID string, site model.Ambulatorio, kind model.ActionKind, description string, payload interface{}) (string, error) {
	raw, err := model.EncodeUndoPayload(payload)
	if err != nil {
		return "", err
	}
	entry := &model.UndoEntry{
		ID:                uuid.New().String(),
		UserID:            userID,
		Ambulatorio:       site,
		ActionType:        kind,
		ActionDescription: description,
		UndoData:          raw,
		Timestamp:         time.Now().UTC(),
	}
	if err := s.stores.Undo.Insert(ctx, entry); err != nil {
		return "", err
	}

	entries, err := s.stores.Undo.List(ctx, userID, site, 0)
	if err != nil {
		s.logger.Error(err, "failed to list undo entries for eviction")
		return entry.ID, nil
	}
	if len(entries) > model.UndoRetention {
		stale := make([]string, 0, len(entries)-model.UndoRetention)
		for _, e := range entries[model.UndoRetention:] {
			stale = append(stale, e.ID)
		}
		if err := s.stores.Undo.DeleteMany(ctx, stale); err != nil {
			s.logger.Error(err, "failed to evict stale undo entries")
		}
	}
	return entry.ID, nil
}

// List returns the user's reversible actions, newest first.
func (s *Service) List(ctx context.Context, userID string, site model.Ambulatorio) ([]*model.UndoEntry, error) {
	return s.stores.Undo.List(ctx, userID, site, model.UndoRetention)
}

// Reverse undoes one ledger entry, the given one or the most recent, and
// removes it from the ledger once the state is restored. The returned string
// is the original action's description.
func (s *Service) Reverse(ctx context.Context, userID string, site model.Ambulatorio, actionID string) (string, error) {
	var entry *model.UndoEntry
	var err error
	if actionID != "" {
		entry, err = s.stores.Undo.Get(ctx, actionID, userID, site)
	} else {
		entry, err = s.stores.Undo.Latest(ctx, userID, site)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrNothingToUndo
	}
	if err != nil {
		return "", err
	}

	if err := s.reverseEntry(ctx, entry); err != nil {
		return "", err
	}

	if err := s.stores.Undo.Delete(ctx, entry.ID); err != nil {
		s.logger.Error(err, "failed to remove reversed undo entry", "entry_id", entry.ID)
	}
	return entry.ActionDescription, nil
}

func (s *Service) reverseEntry(ctx context.Context, entry *model.UndoEntry) error {
	switch entry.ActionType {
	case model.ActionCreatePatient:
		var p model.CreatedPatientUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.Patients.Delete(ctx, p.PatientID)

	case model.ActionCreateMultiplePatients, model.ActionAddExtractedPatients:
		var p model.CreatedPatientsUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		for _, id := range p.PatientIDs {
			if err := s.stores.Patients.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		return nil

	case model.ActionDeletePatient:
		var p model.DeletedPatientUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.restoreBackup(ctx, &p.Backup)

	case model.ActionDeleteMultiplePatients:
		var p model.DeletedPatientsUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		for i := range p.Backups {
			if err := s.restoreBackup(ctx, &p.Backups[i]); err != nil {
				return err
			}
		}
		return nil

	case model.ActionSuspendPatient, model.ActionResumePatient, model.ActionDischargePatient:
		var p model.StatusChangeUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.Patients.SetStatus(ctx, p.PatientID, p.PreviousStatus, p.PreviousDataDimissione)

	case model.ActionSuspendMultiplePatients, model.ActionResumeMultiplePatients, model.ActionDischargeMultiplePatients:
		var p model.StatusChangesUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		for _, c := range p.Changes {
			if err := s.stores.Patients.SetStatus(ctx, c.PatientID, c.PreviousStatus, c.PreviousDataDimissione); err != nil {
				return err
			}
		}
		return nil

	case model.ActionCreateAppointment:
		var p model.CreatedAppointmentUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.Appointments.Delete(ctx, p.AppointmentID)

	case model.ActionDeleteAppointment:
		var p model.DeletedAppointmentUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.Appointments.Create(ctx, &p.Appointment)

	case model.ActionCreateSchedaImpianto:
		var p model.CreatedSchedaUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.SchedeImpianto.Delete(ctx, p.SchedaID)

	case model.ActionCopySchedaMed:
		var p model.CreatedSchedaUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.SchedeMed.Delete(ctx, p.SchedaID)

	case model.ActionCopySchedaGestionePICC:
		var p model.GestioneDayUndo
		if err := model.DecodeUndoPayload(entry.UndoData, &p); err != nil {
			return err
		}
		return s.stores.SchedeGestione.UnsetGiorno(ctx, p.SchedaID, p.DayKey)
	}

	return fmt.Errorf("undo: action %q is not reversible", entry.ActionType)
}

func (s *Service) restoreBackup(ctx context.Context, backup *model.PatientBackup) error {
	if err := s.stores.Patients.Create(ctx, &backup.Patient); err != nil {
		return err
	}
	for i := range backup.Appointments {
		if err := s.stores.Appointments.Create(ctx, &backup.Appointments[i]); err != nil {
			return err
		}
	}
	for i := range backup.SchedeImpianto {
		if err := s.stores.SchedeImpianto.Create(ctx, &backup.SchedeImpianto[i]); err != nil {
			return err
		}
	}
	for i := range backup.SchedeGestione {
		if err := s.stores.SchedeGestione.Create(ctx, &backup.SchedeGestione[i]); err != nil {
			return err
		}
	}
	for i := range backup.SchedeMed {
		if err := s.stores.SchedeMed.Create(ctx, &backup.SchedeMed[i]); err != nil {
			return err
		}
	}
	for i := range backup.Prescrizioni {
		if err := s.stores.Prescrizioni.Create(ctx, &backup.Prescrizioni[i]); err != nil {
			return err
		}
	}
	return nil
}
