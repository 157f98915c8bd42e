package action

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/stats"
	"github.com/medhub/ambulatorio-api/internal/service/undo"
	"github.com/medhub/ambulatorio-api/pkg/logger"
)

const (
	testSite model.Ambulatorio = model.AmbulatorioPTACentro
	testUser                   = "infermiere1"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type env struct {
	patients       *memPatients
	appointments   *memAppointments
	schedeImpianto *memSchedeImpianto
	schedeMed      *memSchedeMed
	schedeGestione *memSchedeGestione
	prescrizioni   *memPrescrizioni
	undoRepo       *memUndo
	exec           *Executor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		patients:       &memPatients{},
		appointments:   &memAppointments{},
		schedeImpianto: &memSchedeImpianto{},
		schedeMed:      &memSchedeMed{},
		schedeGestione: &memSchedeGestione{},
		prescrizioni:   &memPrescrizioni{},
		undoRepo:       &memUndo{},
	}
	log := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	undoSvc := undo.NewService(undo.Stores{
		Undo:           e.undoRepo,
		Patients:       e.patients,
		Appointments:   e.appointments,
		SchedeImpianto: e.schedeImpianto,
		SchedeGestione: e.schedeGestione,
		SchedeMed:      e.schedeMed,
		Prescrizioni:   e.prescrizioni,
	}, log)
	statsSvc := stats.NewService(e.patients, e.appointments, e.schedeImpianto)
	e.exec = NewExecutor(Stores{
		Patients:       e.patients,
		Appointments:   e.appointments,
		SchedeImpianto: e.schedeImpianto,
		SchedeGestione: e.schedeGestione,
		SchedeMed:      e.schedeMed,
		Prescrizioni:   e.prescrizioni,
	}, NewResolver(e.patients), NewSlotAllocator(e.appointments), undoSvc, statsSvc, log)
	e.exec.now = func() time.Time { return fixedNow }
	return e
}

func (e *env) seedPatient(t *testing.T, cognome, nome string, tipo model.PatientType) *model.Patient {
	t.Helper()
	p := &model.Patient{
		ID:          uuid.New().String(),
		Nome:        nome,
		Cognome:     cognome,
		Tipo:        tipo,
		Ambulatorio: testSite,
		Status:      model.PatientStatusInCura,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	require.NoError(t, e.patients.Create(context.Background(), p))
	return p
}

func (e *env) seedAppointment(t *testing.T, patient *model.Patient, data, ora, tipo string) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		ID:             uuid.New().String(),
		PatientID:      patient.ID,
		PatientNome:    patient.Nome,
		PatientCognome: patient.Cognome,
		Ambulatorio:    testSite,
		Data:           data,
		Ora:            ora,
		Tipo:           tipo,
		Prestazioni:    []string{"medicazione_semplice"},
		Stato:          model.AppointmentStatoDaFare,
		CreatedAt:      fixedNow,
	}
	require.NoError(t, e.appointments.Create(context.Background(), a))
	return a
}

func makeAction(t *testing.T, kind model.ActionKind, params interface{}) *model.AIAction {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		require.NoError(t, err)
		raw = b
	}
	return &model.AIAction{Action: kind, Params: raw}
}

func (e *env) run(t *testing.T, kind model.ActionKind, params interface{}) *model.ActionResult {
	t.Helper()
	return e.exec.Execute(context.Background(), testUser, testSite, makeAction(t, kind, params))
}
