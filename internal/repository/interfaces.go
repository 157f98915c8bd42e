package repository

import (
	"context"
	"errors"

	"github.com/medhub/ambulatorio-api/internal/model"
)

// ErrNotFound is returned by point lookups when no document matches. Callers
// treat it as a normal outcome, not a fault.
var ErrNotFound = errors.New("repository: not found")

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	SetStatus(ctx context.Context, id string, status model.PatientStatus, dataDimissione *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)

	// Name-resolution primitives, in the resolver's priority order. All are
	// case-insensitive and scoped to one clinic site.
	FindOneBySurname(ctx context.Context, site model.Ambulatorio, surname string) (*model.Patient, error)
	FindOneBySurnameAndNamePrefix(ctx context.Context, site model.Ambulatorio, surname, namePrefix string) (*model.Patient, error)
	FindOneBySurnamePrefix(ctx context.Context, site model.Ambulatorio, prefix string) (*model.Patient, error)
	FindOneByFullNameTokens(ctx context.Context, site model.Ambulatorio, tokens []string) (*model.Patient, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id string) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	FindOne(ctx context.Context, filters *model.AppointmentFilters) (*model.Appointment, error)
	CountSlot(ctx context.Context, key model.SlotKey) (int64, error)
	ListByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

type SchedaImpiantoRepository interface {
	Create(ctx context.Context, scheda *model.SchedaImpiantoPICC) error
	Get(ctx context.Context, id string) (*model.SchedaImpiantoPICC, error)
	Update(ctx context.Context, scheda *model.SchedaImpiantoPICC) error
	Delete(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaImpiantoPICC, error)
	ListByDateRange(ctx context.Context, site model.Ambulatorio, from, to, tipoCatetere string) ([]*model.SchedaImpiantoPICC, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

type SchedaMedRepository interface {
	Create(ctx context.Context, scheda *model.SchedaMedicazioneMED) error
	Get(ctx context.Context, id string) (*model.SchedaMedicazioneMED, error)
	Update(ctx context.Context, scheda *model.SchedaMedicazioneMED) error
	Delete(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaMedicazioneMED, error)
	LatestByPatient(ctx context.Context, site model.Ambulatorio, patientID string) (*model.SchedaMedicazioneMED, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

type SchedaGestioneRepository interface {
	Create(ctx context.Context, scheda *model.SchedaGestionePICC) error
	Get(ctx context.Context, id string) (*model.SchedaGestionePICC, error)
	Update(ctx context.Context, scheda *model.SchedaGestionePICC) error
	Delete(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]*model.SchedaGestionePICC, error)
	LatestByPatient(ctx context.Context, site model.Ambulatorio, patientID string) (*model.SchedaGestionePICC, error)
	SetGiorno(ctx context.Context, id, dayKey string, entry map[string]interface{}) error
	UnsetGiorno(ctx context.Context, id, dayKey string) error
	DeleteByPatient(ctx context.Context, patientID string) error
}

type PrescrizioneRepository interface {
	Create(ctx context.Context, p *model.Prescrizione) error
	Update(ctx context.Context, p *model.Prescrizione) error
	Delete(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]*model.Prescrizione, error)
	FindByPatientAndMese(ctx context.Context, patientID, mese string) (*model.Prescrizione, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

type ClosedSlotRepository interface {
	Create(ctx context.Context, slot *model.ClosedSlot) error
	Get(ctx context.Context, id string) (*model.ClosedSlot, error)
	Exists(ctx context.Context, site model.Ambulatorio, data, ora, tipo string) (bool, error)
	List(ctx context.Context, filters *model.ClosedSlotFilters) ([]*model.ClosedSlot, error)
	Delete(ctx context.Context, id string) error
	DeleteByDay(ctx context.Context, site model.Ambulatorio, data string) (int64, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	Get(ctx context.Context, id string) (*model.Photo, error)
	ListByPatient(ctx context.Context, patientID string, site model.Ambulatorio, tipo string) ([]*model.Photo, error)
	Delete(ctx context.Context, id string) error
	DeleteByPatient(ctx context.Context, patientID string) error
}

type UndoRepository interface {
	Insert(ctx context.Context, entry *model.UndoEntry) error
	Get(ctx context.Context, id, userID string, site model.Ambulatorio) (*model.UndoEntry, error)
	Latest(ctx context.Context, userID string, site model.Ambulatorio) (*model.UndoEntry, error)
	List(ctx context.Context, userID string, site model.Ambulatorio, limit int64) ([]*model.UndoEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

type ChatRepository interface {
	Insert(ctx context.Context, msg *model.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]*model.ChatMessage, error)
	ListSessions(ctx context.Context, userID string, site model.Ambulatorio) ([]*model.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error
	DeleteAll(ctx context.Context, userID string, site model.Ambulatorio) error
}

type OutboxRepository interface {
	Insert(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id string, status model.OutboxStatus, errorMessage string) error
}
