package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

func (e *Executor) createSchedaImpianto(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CreateSchedaImpiantoParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	dataImpianto := params.DataImpianto
	if dataImpianto == "" {
		dataImpianto = e.today()
	}

	now := e.now().UTC()
	scheda := &model.SchedaImpiantoPICC{
		ID:           uuid.New().String(),
		PatientID:    patient.ID,
		Ambulatorio:  site,
		SchedaType:   "semplificata",
		TipoCatetere: params.TipoCatetere,
		DataImpianto: dataImpianto,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.stores.SchedeImpianto.Create(ctx, scheda); err != nil {
		e.logger.Error(err, "failed to create scheda impianto")
		return fail("❌ Errore durante la creazione della scheda impianto")
	}

	desc := fmt.Sprintf("Scheda impianto per %s", patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, model.ActionCreateSchedaImpianto, desc, model.CreatedSchedaUndo{SchedaID: scheda.ID}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "create_scheda_impianto")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Scheda impianto creata per %s (data %s)", patient.FullName(), dataImpianto),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}

// copySchedaMed clones the patient's most recent dressing record under a new
// compilation date. Clinical content carries over untouched.
func (e *Executor) copySchedaMed(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CopySchedaParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	latest, err := e.stores.SchedeMed.LatestByPatient(ctx, site, patient.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail("❌ Nessuna scheda medicazione da copiare per %s", patient.FullName())
	}
	if err != nil {
		e.logger.Error(err, "failed to load latest scheda medicazione", "patient_id", patient.ID)
		return fail("❌ Errore durante la copia della scheda")
	}

	nuovaData := params.NuovaData
	if nuovaData == "" {
		nuovaData = e.today()
	}

	now := e.now().UTC()
	clone := *latest
	clone.ID = uuid.New().String()
	clone.DataCompilazione = nuovaData
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if err := e.stores.SchedeMed.Create(ctx, &clone); err != nil {
		e.logger.Error(err, "failed to copy scheda medicazione")
		return fail("❌ Errore durante la copia della scheda")
	}

	desc := fmt.Sprintf("Copia scheda medicazione per %s", patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, model.ActionCopySchedaMed, desc, model.CreatedSchedaUndo{SchedaID: clone.ID}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "copy_scheda_med")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Scheda medicazione copiata per %s con data %s", patient.FullName(), nuovaData),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}

// copySchedaGestione appends one day to the patient's latest monthly catheter
// management record, cloning the content of the last compiled day.
func (e *Executor) copySchedaGestione(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CopySchedaParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	scheda, err := e.stores.SchedeGestione.LatestByPatient(ctx, site, patient.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail("❌ Nessuna scheda gestione PICC trovata per %s", patient.FullName())
	}
	if err != nil {
		e.logger.Error(err, "failed to load latest scheda gestione", "patient_id", patient.ID)
		return fail("❌ Errore durante la copia della scheda")
	}
	if len(scheda.Giorni) == 0 {
		return fail("❌ La scheda gestione PICC di %s non ha giorni compilati da copiare", patient.FullName())
	}

	dayKey := params.NuovaData
	if dayKey == "" {
		dayKey = e.today()
	}
	dayDate, err := time.Parse("2006-01-02", dayKey)
	if err != nil {
		return fail("❌ Data non valida: %s", params.NuovaData)
	}
	if _, exists := scheda.Giorni[dayKey]; exists {
		return fail("⚠️ Il giorno %s è già presente nella scheda", dayKey)
	}

	keys := make([]string, 0, len(scheda.Giorni))
	for k := range scheda.Giorni {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lastDay := scheda.Giorni[keys[len(keys)-1]]

	entry := make(map[string]interface{}, len(lastDay)+1)
	for k, v := range lastDay {
		entry[k] = v
	}
	entry["data_giorno_mese"] = fmt.Sprintf("%d/%d", dayDate.Day(), int(dayDate.Month()))

	if err := e.stores.SchedeGestione.SetGiorno(ctx, scheda.ID, dayKey, entry); err != nil {
		e.logger.Error(err, "failed to append giorno", "scheda_id", scheda.ID)
		return fail("❌ Errore durante la copia della scheda")
	}

	desc := fmt.Sprintf("Giorno %s su scheda gestione PICC di %s", dayKey, patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, model.ActionCopySchedaGestionePICC, desc, model.GestioneDayUndo{SchedaID: scheda.ID, DayKey: dayKey}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "copy_scheda_gestione_picc")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Giorno %s aggiunto alla scheda gestione PICC di %s", dayKey, patient.FullName()),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}
