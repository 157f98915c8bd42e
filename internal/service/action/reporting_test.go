package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
)

func TestPatientsCount(t *testing.T) {
	e := newEnv(t)
	e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
	e.seedPatient(t, "Verdi", "Anna", model.PatientTypePICC)
	e.seedPatient(t, "Neri", "Paola", model.PatientTypeMED)
	require.True(t, e.run(t, model.ActionSuspendPatient, model.PatientNameParams{PatientName: "Verdi"}).Success)

	t.Run("all patients", func(t *testing.T) {
		res := e.run(t, model.ActionGetPatientsCount, model.PatientsCountParams{})
		require.True(t, res.Success)
		assert.Equal(t, "📊 3 pazienti", res.Message)
		assert.Equal(t, 3, res.Extra["total"])
		byStatus := res.Extra["by_status"].(map[string]int)
		assert.Equal(t, 2, byStatus["in_cura"])
		assert.Equal(t, 1, byStatus["sospeso"])
	})

	t.Run("narrowed by tipo and stato", func(t *testing.T) {
		res := e.run(t, model.ActionGetPatientsCount, model.PatientsCountParams{Tipo: "PICC", Stato: "in_cura"})
		require.True(t, res.Success)
		assert.Equal(t, "📊 1 pazienti PICC (in_cura)", res.Message)
	})
}

func TestImplantStatistics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for i, data := range []string{"2026-03-02", "2026-03-20", "2026-04-01"} {
		require.NoError(t, e.schedeImpianto.Create(ctx, &model.SchedaImpiantoPICC{
			ID: string(rune('a' + i)), PatientID: "p1", Ambulatorio: testSite,
			TipoCatetere: "PICC", DataImpianto: data,
		}))
	}
	require.NoError(t, e.schedeImpianto.Create(ctx, &model.SchedaImpiantoPICC{
		ID: "d", PatientID: "p1", Ambulatorio: testSite,
		TipoCatetere: "Midline", DataImpianto: "2026-03-15",
	}))

	t.Run("month and catheter type", func(t *testing.T) {
		res := e.run(t, model.ActionGetImplantStatistics, model.ImplantStatisticsParams{
			TipoImpianto: "PICC", Anno: 2026, Mese: 3,
		})
		require.True(t, res.Success)
		assert.Equal(t, "📊 2 impianti PICC nel periodo 03/2026", res.Message)
	})

	t.Run("whole year with pdf", func(t *testing.T) {
		res := e.run(t, model.ActionGetImplantStatistics, model.ImplantStatisticsParams{
			Anno: 2026, GeneratePDF: true,
		})
		require.True(t, res.Success)
		assert.Equal(t, "📊 4 impianti nel periodo 2026", res.Message)
		assert.Equal(t, "/api/print/statistiche/impianti?anno=2026", res.PDFEndpoint)
		assert.Equal(t, "statistiche_impianti_2026.pdf", res.Filename)
	})
}

func TestPrestazioniStatistics(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
	e.seedAppointment(t, p, "2026-03-02", "08:30", "PICC")
	e.seedAppointment(t, p, "2026-03-05", "09:00", "PICC")
	e.seedAppointment(t, p, "2026-04-01", "09:00", "MED")

	res := e.run(t, model.ActionGetPrestazioniStatistics, model.PrestazioniStatisticsParams{
		Anno: 2026, Mese: 3, GeneratePDF: true,
	})
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "📊 2 appuntamenti nel periodo 03/2026")
	assert.Contains(t, res.Message, "- medicazione_semplice: 2")
	assert.Equal(t, 2, res.Extra["total"])
	assert.Equal(t, "/api/print/statistiche/prestazioni?anno=2026&mese=3", res.PDFEndpoint)
	assert.Equal(t, "statistiche_prestazioni_03_2026.pdf", res.Filename)

	// Legacy alias routes to the same computation.
	alias := e.run(t, model.ActionGetStatistics, model.PrestazioniStatisticsParams{Anno: 2026, Mese: 3})
	require.True(t, alias.Success)
	assert.Equal(t, 2, alias.Extra["total"])
}

func TestCompareStatistics(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "Rossi", "Mario", model.PatientTypePICC)
	e.seedAppointment(t, p, "2026-03-02", "08:30", "PICC")
	e.seedAppointment(t, p, "2026-04-01", "08:30", "PICC")
	e.seedAppointment(t, p, "2026-04-02", "09:00", "PICC")

	res := e.run(t, model.ActionCompareStatistics, model.CompareStatisticsParams{
		Periodo1: model.StatisticsPeriod{Anno: 2026, Mese: 3},
		Periodo2: model.StatisticsPeriod{Anno: 2026, Mese: 4},
	})
	require.True(t, res.Success)
	assert.Equal(t, "📊 Confronto: 03/2026 = 1 appuntamenti, 04/2026 = 2 appuntamenti (+1)", res.Message)
	assert.Equal(t, 1, res.Extra["delta"])
}

func TestPrintPatientFolder(t *testing.T) {
	e := newEnv(t)
	p := e.seedPatient(t, "De Luca", "Anna Maria", model.PatientTypePICC)

	res := e.run(t, model.ActionPrintPatientFolder, model.PrintPatientFolderParams{PatientName: "De Luca"})
	require.True(t, res.Success)
	assert.Equal(t, "📄 Cartella di De Luca Anna Maria pronta per la stampa", res.Message)
	assert.Equal(t, "/api/print/cartella/"+p.ID, res.PDFEndpoint)
	assert.Equal(t, "cartella_de_luca_anna_maria.pdf", res.Filename)

	res = e.run(t, model.ActionPrintPatientFolder, model.PrintPatientFolderParams{PatientName: "De Luca", Sezione: "schede"})
	require.True(t, res.Success)
	assert.Equal(t, "/api/print/cartella/"+p.ID+"?sezione=schede", res.PDFEndpoint)
}
