package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
)

func TestFindAvailable(t *testing.T) {
	day := "2026-03-16"

	t.Run("empty agenda starts at opening", func(t *testing.T) {
		e := newEnv(t)
		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoMattina)
		require.NoError(t, err)
		assert.Equal(t, "08:30", ora)
	})

	t.Run("skips full slots", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		e.seedAppointment(t, p, day, "08:30", "PICC")
		e.seedAppointment(t, p, day, "08:30", "PICC")

		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoMattina)
		require.NoError(t, err)
		assert.Equal(t, "09:00", ora)
	})

	t.Run("capacity buckets are per tipo", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		e.seedAppointment(t, p, day, "08:30", "MED")
		e.seedAppointment(t, p, day, "08:30", "MED")

		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoMattina)
		require.NoError(t, err)
		assert.Equal(t, "08:30", ora)
	})

	t.Run("afternoon shift", func(t *testing.T) {
		e := newEnv(t)
		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoPomeriggio)
		require.NoError(t, err)
		assert.Equal(t, "15:00", ora)
	})

	t.Run("first available rolls into the afternoon", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		for _, ora := range morningSlots {
			e.seedAppointment(t, p, day, ora, "PICC")
			e.seedAppointment(t, p, day, ora, "PICC")
		}
		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoPrimoDisponibile)
		require.NoError(t, err)
		assert.Equal(t, "15:00", ora)
	})

	t.Run("fully booked shift", func(t *testing.T) {
		e := newEnv(t)
		p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
		for _, ora := range morningSlots {
			e.seedAppointment(t, p, day, ora, "PICC")
			e.seedAppointment(t, p, day, ora, "PICC")
		}
		slots := NewSlotAllocator(e.appointments)
		ora, err := slots.FindAvailable(context.Background(), testSite, day, "PICC", TurnoMattina)
		require.NoError(t, err)
		assert.Equal(t, "", ora)
	})
}

func TestHasCapacity(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
	key := model.SlotKey{Ambulatorio: testSite, Data: "2026-03-16", Ora: "13:00", Tipo: "PICC"}
	slots := NewSlotAllocator(e.appointments)

	ok, err := slots.HasCapacity(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)

	e.seedAppointment(t, p, key.Data, key.Ora, key.Tipo)
	ok, err = slots.HasCapacity(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)

	e.seedAppointment(t, p, key.Data, key.Ora, key.Tipo)
	ok, err = slots.HasCapacity(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, ok)
}
