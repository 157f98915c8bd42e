package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

func TestCreatePatient(t *testing.T) {
	t.Run("defaults tipo and status", func(t *testing.T) {
		e := newEnv(t)
		res := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Mario", Cognome: "Rossi"})

		require.True(t, res.Success)
		assert.Equal(t, "✅ Paziente Rossi Mario creato con successo (PICC)", res.Message)
		assert.True(t, res.CanUndo)
		assert.Equal(t, model.ActionCreatePatient, res.ActionType)
		require.NotNil(t, res.Patient)

		stored, err := e.patients.Get(context.Background(), res.Patient.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PatientTypePICC, stored.Tipo)
		assert.Equal(t, model.PatientStatusInCura, stored.Status)
		assert.Equal(t, testSite, stored.Ambulatorio)

		entries, err := e.undoRepo.List(context.Background(), testUser, testSite, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.ActionCreatePatient, entries[0].ActionType)
	})

	t.Run("missing name fails", func(t *testing.T) {
		e := newEnv(t)
		res := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Mario"})
		assert.False(t, res.Success)
		assert.Equal(t, "❌ Nome e cognome sono obbligatori", res.Message)
	})

	t.Run("undo removes the patient", func(t *testing.T) {
		e := newEnv(t)
		res := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Mario", Cognome: "Rossi", Tipo: model.PatientTypeMED})
		require.True(t, res.Success)

		undone := e.run(t, model.ActionUndo, nil)
		require.True(t, undone.Success)
		assert.Equal(t, "↩️ Azione annullata: Creazione paziente Rossi Mario", undone.Message)

		_, err := e.patients.Get(context.Background(), res.Patient.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		entries, err := e.undoRepo.List(context.Background(), testUser, testSite, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestCreateAppointment(t *testing.T) {
	t.Run("explicit time within capacity", func(t *testing.T) {
		e := newEnv(t)
		anna := e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
		other := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		e.seedAppointment(t, other, "2026-03-15", "13:00", "PICC")

		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{
			PatientName: "Verdi Anna",
			Data:        "2026-03-15",
			Ora:         "13:00",
		})
		require.True(t, res.Success)
		assert.Equal(t, "✅ Appuntamento per Verdi Anna creato il 2026-03-15 alle 13:00 (PICC)", res.Message)

		created, err := e.appointments.FindOne(context.Background(), &model.AppointmentFilters{
			Ambulatorio: testSite, PatientID: anna.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "13:00", created.Ora)
		assert.Equal(t, model.AppointmentStatoDaFare, created.Stato)
		assert.Equal(t, []string{"medicazione_semplice", "irrigazione_catetere"}, created.Prestazioni)
	})

	t.Run("explicit time never reassigned when full", func(t *testing.T) {
		e := newEnv(t)
		e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
		other := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		e.seedAppointment(t, other, "2026-03-15", "13:00", "PICC")
		e.seedAppointment(t, other, "2026-03-15", "13:00", "PICC")

		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{
			PatientName: "Verdi Anna",
			Data:        "2026-03-15",
			Ora:         "13:00",
		})
		assert.False(t, res.Success)
		assert.Equal(t, "⚠️ L'orario 13:00 del 2026-03-15 è già al completo", res.Message)
	})

	t.Run("defaults date, tipo and slot", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Bruni", "Carla", model.PatientTypePICCMED)

		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{PatientName: "Bruni"})
		require.True(t, res.Success)

		created, err := e.appointments.FindOne(context.Background(), &model.AppointmentFilters{
			Ambulatorio: testSite, PatientID: p.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-10", created.Data)
		assert.Equal(t, "08:30", created.Ora)
		assert.Equal(t, "PICC", created.Tipo) // PICC_MED books on the PICC agenda
	})

	t.Run("med patient gets med defaults", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Neri", "Paola", model.PatientTypeMED)

		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{PatientName: "Neri"})
		require.True(t, res.Success)

		created, err := e.appointments.FindOne(context.Background(), &model.AppointmentFilters{
			Ambulatorio: testSite, PatientID: p.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "MED", created.Tipo)
		assert.Equal(t, []string{"medicazione_semplice"}, created.Prestazioni)
	})

	t.Run("invalid date", func(t *testing.T) {
		e := newEnv(t)
		e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{
			PatientName: "Verdi", Data: "15/03/2026",
		})
		assert.False(t, res.Success)
		assert.Equal(t, "❌ Data non valida: 15/03/2026", res.Message)
	})

	t.Run("undo removes the appointment", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
		res := e.run(t, model.ActionCreateAppointment, model.CreateAppointmentParams{PatientName: "Verdi"})
		require.True(t, res.Success)

		undone := e.run(t, model.ActionUndo, nil)
		require.True(t, undone.Success)

		_, err := e.appointments.FindOne(context.Background(), &model.AppointmentFilters{
			Ambulatorio: testSite, PatientID: p.ID,
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDeleteAppointment(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
	e.seedAppointment(t, p, "2026-03-15", "10:00", "PICC")
	kept := e.seedAppointment(t, p, "2026-03-15", "11:00", "PICC")

	res := e.run(t, model.ActionDeleteAppointment, model.DeleteAppointmentParams{
		PatientName: "Verdi", Data: "2026-03-15", Ora: "10:00",
	})
	require.True(t, res.Success)
	assert.Equal(t, "✅ Appuntamento di Verdi Anna del 2026-03-15 alle 10:00 eliminato", res.Message)

	remaining, err := e.appointments.ListByPatient(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	// Reversal recreates the deleted appointment as it was.
	undone := e.run(t, model.ActionUndo, nil)
	require.True(t, undone.Success)
	remaining, err = e.appointments.ListByPatient(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestStatusChanges(t *testing.T) {
	t.Run("suspend", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		res := e.run(t, model.ActionSuspendPatient, model.PatientNameParams{PatientName: "Rossi"})
		require.True(t, res.Success)
		assert.Equal(t, "✅ Paziente Rossi Mario sospeso", res.Message)

		stored, _ := e.patients.Get(context.Background(), p.ID)
		assert.Equal(t, model.PatientStatusSospeso, stored.Status)
	})

	t.Run("suspend when already suspended", func(t *testing.T) {
		e := newEnv(t)
		e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		require.True(t, e.run(t, model.ActionSuspendPatient, model.PatientNameParams{PatientName: "Rossi"}).Success)

		res := e.run(t, model.ActionSuspendPatient, model.PatientNameParams{PatientName: "Rossi"})
		assert.False(t, res.Success)
		assert.Equal(t, "⚠️ Il paziente Rossi Mario è già sospeso", res.Message)
	})

	t.Run("discharge stamps the date", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		res := e.run(t, model.ActionDischargePatient, model.PatientNameParams{PatientName: "Rossi"})
		require.True(t, res.Success)

		stored, _ := e.patients.Get(context.Background(), p.ID)
		assert.Equal(t, model.PatientStatusDimesso, stored.Status)
		assert.Equal(t, "2026-03-10", stored.DataDimissione)
	})

	t.Run("undo discharge clears the date", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		require.True(t, e.run(t, model.ActionDischargePatient, model.PatientNameParams{PatientName: "Rossi"}).Success)

		undone := e.run(t, model.ActionUndo, nil)
		require.True(t, undone.Success)

		stored, _ := e.patients.Get(context.Background(), p.ID)
		assert.Equal(t, model.PatientStatusInCura, stored.Status)
		assert.Empty(t, stored.DataDimissione)
	})

	t.Run("resume clears the discharge date", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		require.True(t, e.run(t, model.ActionDischargePatient, model.PatientNameParams{PatientName: "Rossi"}).Success)

		res := e.run(t, model.ActionResumePatient, model.PatientNameParams{PatientName: "Rossi"})
		require.True(t, res.Success)
		assert.Equal(t, "✅ Paziente Rossi Mario riattivato in cura", res.Message)

		stored, _ := e.patients.Get(context.Background(), p.ID)
		assert.Equal(t, model.PatientStatusInCura, stored.Status)
		assert.Empty(t, stored.DataDimissione)
	})
}

func TestDeletePatientCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
	e.seedAppointment(t, p, "2026-03-15", "10:00", "PICC")
	require.NoError(t, e.schedeImpianto.Create(ctx, &model.SchedaImpiantoPICC{
		ID: "si-1", PatientID: p.ID, Ambulatorio: testSite, DataImpianto: "2026-02-01",
	}))
	require.NoError(t, e.prescrizioni.Create(ctx, &model.Prescrizione{
		ID: "pr-1", PatientID: p.ID, Ambulatorio: testSite, Mese: "2026-03",
	}))

	res := e.run(t, model.ActionDeletePatient, model.PatientNameParams{PatientName: "Verdi Anna"})
	require.True(t, res.Success)
	assert.Equal(t, "✅ Paziente Verdi Anna eliminato con tutti i dati collegati", res.Message)

	_, err := e.patients.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	appts, _ := e.appointments.ListByPatient(ctx, p.ID)
	assert.Empty(t, appts)
	schede, _ := e.schedeImpianto.ListByPatient(ctx, p.ID)
	assert.Empty(t, schede)
	prescr, _ := e.prescrizioni.ListByPatient(ctx, p.ID)
	assert.Empty(t, prescr)

	// Reversal restores the full snapshot.
	undone := e.run(t, model.ActionUndo, nil)
	require.True(t, undone.Success)
	assert.Equal(t, "↩️ Azione annullata: Eliminazione paziente Verdi Anna", undone.Message)

	restored, err := e.patients.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", restored.Nome)
	appts, _ = e.appointments.ListByPatient(ctx, p.ID)
	assert.Len(t, appts, 1)
	schede, _ = e.schedeImpianto.ListByPatient(ctx, p.ID)
	assert.Len(t, schede, 1)
	prescr, _ = e.prescrizioni.ListByPatient(ctx, p.ID)
	assert.Len(t, prescr, 1)
}

func TestSearchAndOpenPatient(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
	e.seedPatient(t, "Verdini", "Luca", model.PatientTypeMED)

	res := e.run(t, model.ActionSearchPatient, model.SearchPatientParams{Query: "verd"})
	require.True(t, res.Success)
	assert.Equal(t, "📋 Trovati 2 pazienti per 'verd'", res.Message)
	assert.Len(t, res.Patients, 2)

	res = e.run(t, model.ActionSearchPatient, model.SearchPatientParams{Query: "xyz"})
	assert.False(t, res.Success)

	res = e.run(t, model.ActionOpenPatient, model.PatientNameParams{PatientName: "Verdi Anna"})
	require.True(t, res.Success)
	assert.Equal(t, "/pazienti/"+p.ID, res.NavigateTo)
}

func TestUnknownPatientAndAction(t *testing.T) {
	e := newEnv(t)

	res := e.run(t, model.ActionSuspendPatient, model.PatientNameParams{PatientName: "Fantasma"})
	assert.False(t, res.Success)
	assert.Equal(t, "❌ Paziente 'Fantasma' non trovato", res.Message)

	res = e.run(t, model.ActionKind("explode_database"), nil)
	assert.False(t, res.Success)
	assert.Equal(t, "❌ Azione non riconosciuta: explode_database", res.Message)
}

func TestUndoLedger(t *testing.T) {
	t.Run("nothing to undo", func(t *testing.T) {
		e := newEnv(t)
		res := e.run(t, model.ActionUndo, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "❌ Nessuna azione da annullare", res.Message)
	})

	t.Run("retention keeps the newest ten", func(t *testing.T) {
		e := newEnv(t)
		for i := 0; i < model.UndoRetention+2; i++ {
			res := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{
				Nome: "Mario", Cognome: string(rune('A' + i)),
			})
			require.True(t, res.Success)
		}

		entries, err := e.undoRepo.List(context.Background(), testUser, testSite, 0)
		require.NoError(t, err)
		require.Len(t, entries, model.UndoRetention)
		// Newest first; the two oldest creations were evicted.
		assert.Equal(t, "Creazione paziente L Mario", entries[0].ActionDescription)
		assert.Equal(t, "Creazione paziente C Mario", entries[len(entries)-1].ActionDescription)
	})

	t.Run("undo by action id", func(t *testing.T) {
		e := newEnv(t)
		first := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Mario", Cognome: "Rossi"})
		second := e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Anna", Cognome: "Verdi"})
		require.True(t, first.Success)
		require.True(t, second.Success)

		entries, err := e.undoRepo.List(context.Background(), testUser, testSite, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		oldest := entries[1]

		res := e.run(t, model.ActionUndo, model.UndoParams{ActionID: oldest.ID})
		require.True(t, res.Success)
		assert.Equal(t, "↩️ Azione annullata: Creazione paziente Rossi Mario", res.Message)

		_, err = e.patients.Get(context.Background(), first.Patient.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = e.patients.Get(context.Background(), second.Patient.ID)
		assert.NoError(t, err)
	})

	t.Run("list formats the ledger", func(t *testing.T) {
		e := newEnv(t)
		require.True(t, e.run(t, model.ActionCreatePatient, model.CreatePatientParams{Nome: "Mario", Cognome: "Rossi"}).Success)

		res := e.run(t, model.ActionListUndo, nil)
		require.True(t, res.Success)
		assert.Contains(t, res.Message, "📋 Azioni annullabili:")
		assert.Contains(t, res.Message, "1. Creazione paziente Rossi Mario")
		assert.Contains(t, res.Extra, "actions")
	})

	t.Run("empty ledger listing", func(t *testing.T) {
		e := newEnv(t)
		res := e.run(t, model.ActionListUndo, nil)
		require.True(t, res.Success)
		assert.Equal(t, "📋 Nessuna azione annullabile", res.Message)
	})
}
