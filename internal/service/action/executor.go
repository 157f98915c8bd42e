package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	"github.com/medhub/ambulatorio-api/internal/service/stats"
	"github.com/medhub/ambulatorio-api/internal/service/undo"
	"github.com/medhub/ambulatorio-api/pkg/logger"
)

// Stores groups the repositories the executor mutates directly.
type Stores struct {
	Patients       repository.PatientRepository
	Appointments   repository.AppointmentRepository
	SchedeImpianto repository.SchedaImpiantoRepository
	SchedeGestione repository.SchedaGestioneRepository
	SchedeMed      repository.SchedaMedRepository
	Prescrizioni   repository.PrescrizioneRepository
}

// Executor turns parsed assistant actions into state changes. Every kind
// answers with an ActionResult carrying a user-facing message; failures are
// results too, never Go errors, so one bad item cannot abort a batch.
type Executor struct {
	stores   Stores
	resolver *Resolver
	slots    *SlotAllocator
	undo     *undo.Service
	stats    *stats.Service
	logger   *logger.Logger
	now      func() time.Time
}

func NewExecutor(stores Stores, resolver *Resolver, slots *SlotAllocator, undoSvc *undo.Service, statsSvc *stats.Service, logger *logger.Logger) *Executor {
	return &Executor{
		stores:   stores,
		resolver: resolver,
		slots:    slots,
		undo:     undoSvc,
		stats:    statsSvc,
		logger:   logger,
		now:      time.Now,
	}
}

func fail(format string, args ...interface{}) *model.ActionResult {
	return &model.ActionResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

func (e *Executor) today() string {
	return e.now().Format("2006-01-02")
}

func decodeParams(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Execute runs one action on behalf of userID within one clinic site.
func (e *Executor) Execute(ctx context.Context, userID string, site model.Ambulatorio, act *model.AIAction) *model.ActionResult {
	result := e.dispatch(ctx, userID, site, act)
	result.ActionType = act.Action
	e.logger.Info("action executed",
		"action", string(act.Action),
		"user_id", userID,
		"ambulatorio", string(site),
		"success", result.Success,
	)
	return result
}

func (e *Executor) dispatch(ctx context.Context, userID string, site model.Ambulatorio, act *model.AIAction) *model.ActionResult {
	switch act.Action {
	case model.ActionCreatePatient:
		return e.createPatient(ctx, userID, site, act.Params)
	case model.ActionDeletePatient:
		return e.deletePatient(ctx, userID, site, act.Params)
	case model.ActionSuspendPatient:
		return e.changeStatus(ctx, userID, site, act.Params, model.ActionSuspendPatient)
	case model.ActionResumePatient:
		return e.changeStatus(ctx, userID, site, act.Params, model.ActionResumePatient)
	case model.ActionDischargePatient:
		return e.changeStatus(ctx, userID, site, act.Params, model.ActionDischargePatient)
	case model.ActionSearchPatient:
		return e.searchPatient(ctx, site, act.Params)
	case model.ActionOpenPatient:
		return e.openPatient(ctx, site, act.Params)

	case model.ActionCreateAppointment:
		return e.createAppointment(ctx, userID, site, act.Params)
	case model.ActionDeleteAppointment:
		return e.deleteAppointment(ctx, userID, site, act.Params)

	case model.ActionCreateSchedaImpianto:
		return e.createSchedaImpianto(ctx, userID, site, act.Params)
	case model.ActionCopySchedaMed:
		return e.copySchedaMed(ctx, userID, site, act.Params)
	case model.ActionCopySchedaGestionePICC:
		return e.copySchedaGestione(ctx, userID, site, act.Params)

	case model.ActionCreateMultiplePatients, model.ActionAddExtractedPatients:
		return e.createMultiplePatients(ctx, userID, site, act.Params, act.Action)
	case model.ActionSuspendMultiplePatients:
		return e.changeStatusMultiple(ctx, userID, site, act.Params, model.ActionSuspendMultiplePatients)
	case model.ActionResumeMultiplePatients:
		return e.changeStatusMultiple(ctx, userID, site, act.Params, model.ActionResumeMultiplePatients)
	case model.ActionDischargeMultiplePatients:
		return e.changeStatusMultiple(ctx, userID, site, act.Params, model.ActionDischargeMultiplePatients)
	case model.ActionDeleteMultiplePatients:
		return e.deleteMultiplePatients(ctx, userID, site, act.Params)

	case model.ActionGetPatientsCount:
		return e.patientsCount(ctx, site, act.Params)
	case model.ActionGetImplantStatistics:
		return e.implantStatistics(ctx, site, act.Params)
	case model.ActionGetPrestazioniStatistics, model.ActionGetStatistics:
		return e.prestazioniStatistics(ctx, site, act.Params)
	case model.ActionCompareStatistics:
		return e.compareStatistics(ctx, site, act.Params)
	case model.ActionPrintPatientFolder:
		return e.printPatientFolder(ctx, site, act.Params)

	case model.ActionUndo:
		return e.undoAction(ctx, userID, site, act.Params)
	case model.ActionListUndo:
		return e.listUndoActions(ctx, userID, site)
	}
	return fail("❌ Azione non riconosciuta: %s", act.Action)
}

// resolvePatient wraps the resolver with the standard not-found message.
func (e *Executor) resolvePatient(ctx context.Context, site model.Ambulatorio, name string) (*model.Patient, *model.ActionResult) {
	if name == "" {
		return nil, fail("❌ Nome del paziente mancante")
	}
	p, err := e.resolver.Resolve(ctx, site, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail("❌ Paziente '%s' non trovato", name)
	}
	if err != nil {
		e.logger.Error(err, "patient resolution failed", "name", name)
		return nil, fail("❌ Errore durante la ricerca del paziente '%s'", name)
	}
	return p, nil
}

func (e *Executor) createPatient(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CreatePatientParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	if params.Nome == "" || params.Cognome == "" {
		return fail("❌ Nome e cognome sono obbligatori")
	}
	tipo := params.Tipo
	switch tipo {
	case model.PatientTypePICC, model.PatientTypeMED, model.PatientTypePICCMED:
	default:
		tipo = model.PatientTypePICC
	}

	now := e.now().UTC()
	patient := &model.Patient{
		ID:          uuid.New().String(),
		Nome:        params.Nome,
		Cognome:     params.Cognome,
		Tipo:        tipo,
		Ambulatorio: site,
		Status:      model.PatientStatusInCura,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.stores.Patients.Create(ctx, patient); err != nil {
		e.logger.Error(err, "failed to create patient")
		return fail("❌ Errore durante la creazione del paziente")
	}

	desc := fmt.Sprintf("Creazione paziente %s", patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, model.ActionCreatePatient, desc, model.CreatedPatientUndo{PatientID: patient.ID}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "create_patient")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Paziente %s creato con successo (%s)", patient.FullName(), tipo),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}

func (e *Executor) deletePatient(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PatientNameParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	backup, err := e.collectBackup(ctx, patient)
	if err != nil {
		e.logger.Error(err, "failed to snapshot patient", "patient_id", patient.ID)
		return fail("❌ Errore durante l'eliminazione del paziente")
	}
	if err := e.cascadeDelete(ctx, patient.ID); err != nil {
		e.logger.Error(err, "failed to delete patient", "patient_id", patient.ID)
		return fail("❌ Errore durante l'eliminazione del paziente")
	}

	desc := fmt.Sprintf("Eliminazione paziente %s", patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, model.ActionDeletePatient, desc, model.DeletedPatientUndo{Backup: *backup}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "delete_patient")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Paziente %s eliminato con tutti i dati collegati", patient.FullName()),
		CanUndo: true,
	}
}

// collectBackup snapshots the patient and every dependent record so the
// deletion can be reversed. Photo attachments are not part of the snapshot and
// are not restored by an undo.
func (e *Executor) collectBackup(ctx context.Context, patient *model.Patient) (*model.PatientBackup, error) {
	backup := &model.PatientBackup{Patient: *patient}

	appointments, err := e.stores.Appointments.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range appointments {
		backup.Appointments = append(backup.Appointments, *a)
	}

	impianti, err := e.stores.SchedeImpianto.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range impianti {
		backup.SchedeImpianto = append(backup.SchedeImpianto, *s)
	}

	gestioni, err := e.stores.SchedeGestione.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range gestioni {
		backup.SchedeGestione = append(backup.SchedeGestione, *s)
	}

	med, err := e.stores.SchedeMed.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range med {
		backup.SchedeMed = append(backup.SchedeMed, *s)
	}

	prescrizioni, err := e.stores.Prescrizioni.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range prescrizioni {
		backup.Prescrizioni = append(backup.Prescrizioni, *p)
	}

	return backup, nil
}

func (e *Executor) cascadeDelete(ctx context.Context, patientID string) error {
	if err := e.stores.Appointments.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	if err := e.stores.SchedeImpianto.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	if err := e.stores.SchedeGestione.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	if err := e.stores.SchedeMed.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	if err := e.stores.Prescrizioni.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	return e.stores.Patients.Delete(ctx, patientID)
}

// changeStatus handles suspend, resume and discharge for a single patient.
func (e *Executor) changeStatus(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage, kind model.ActionKind) *model.ActionResult {
	var params model.PatientNameParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	change, errRes := e.applyStatusChange(ctx, patient, kind)
	if errRes != nil {
		return errRes
	}

	desc := fmt.Sprintf("%s paziente %s", statusChangeLabel(kind), patient.FullName())
	if _, err := e.undo.Record(ctx, userID, site, kind, desc, *change); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", string(kind))
	}

	return &model.ActionResult{
		Success: true,
		Message: statusChangeMessage(kind, patient),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}

// applyStatusChange validates the transition and writes it, returning the undo
// payload describing the previous state.
func (e *Executor) applyStatusChange(ctx context.Context, patient *model.Patient, kind model.ActionKind) (*model.StatusChangeUndo, *model.ActionResult) {
	prevDD := patient.DataDimissione
	change := &model.StatusChangeUndo{
		PatientID:              patient.ID,
		PreviousStatus:         patient.Status,
		PreviousDataDimissione: &prevDD,
	}

	var newStatus model.PatientStatus
	var newDD *string
	switch kind {
	case model.ActionSuspendPatient, model.ActionSuspendMultiplePatients:
		if patient.Status == model.PatientStatusSospeso {
			return nil, fail("⚠️ Il paziente %s è già sospeso", patient.FullName())
		}
		newStatus = model.PatientStatusSospeso
	case model.ActionResumePatient, model.ActionResumeMultiplePatients:
		if patient.Status == model.PatientStatusInCura {
			return nil, fail("⚠️ Il paziente %s è già in cura", patient.FullName())
		}
		newStatus = model.PatientStatusInCura
		empty := ""
		newDD = &empty
	case model.ActionDischargePatient, model.ActionDischargeMultiplePatients:
		if patient.Status == model.PatientStatusDimesso {
			return nil, fail("⚠️ Il paziente %s è già dimesso", patient.FullName())
		}
		newStatus = model.PatientStatusDimesso
		today := e.today()
		newDD = &today
	}

	if err := e.stores.Patients.SetStatus(ctx, patient.ID, newStatus, newDD); err != nil {
		e.logger.Error(err, "failed to change patient status", "patient_id", patient.ID)
		return nil, fail("❌ Errore durante l'aggiornamento dello stato del paziente")
	}
	patient.Status = newStatus
	return change, nil
}

func statusChangeLabel(kind model.ActionKind) string {
	switch kind {
	case model.ActionSuspendPatient, model.ActionSuspendMultiplePatients:
		return "Sospensione"
	case model.ActionResumePatient, model.ActionResumeMultiplePatients:
		return "Riattivazione"
	default:
		return "Dimissione"
	}
}

func statusChangeMessage(kind model.ActionKind, patient *model.Patient) string {
	switch kind {
	case model.ActionSuspendPatient:
		return fmt.Sprintf("✅ Paziente %s sospeso", patient.FullName())
	case model.ActionResumePatient:
		return fmt.Sprintf("✅ Paziente %s riattivato in cura", patient.FullName())
	default:
		return fmt.Sprintf("✅ Paziente %s dimesso", patient.FullName())
	}
}

func (e *Executor) searchPatient(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.SearchPatientParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	if params.Query == "" {
		return fail("❌ Criterio di ricerca mancante")
	}
	patients, err := e.stores.Patients.List(ctx, &model.PatientFilters{
		Ambulatorio: site,
		Search:      params.Query,
		Limit:       20,
	})
	if err != nil {
		e.logger.Error(err, "patient search failed", "query", params.Query)
		return fail("❌ Errore durante la ricerca")
	}
	if len(patients) == 0 {
		return fail("❌ Nessun paziente trovato per '%s'", params.Query)
	}
	return &model.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("📋 Trovati %d pazienti per '%s'", len(patients), params.Query),
		Patients: patients,
	}
}

func (e *Executor) openPatient(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PatientNameParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}
	return &model.ActionResult{
		Success:    true,
		Message:    fmt.Sprintf("📂 Apro la cartella di %s", patient.FullName()),
		Patient:    model.NewPatientRef(patient),
		NavigateTo: "/pazienti/" + patient.ID,
	}
}

func (e *Executor) createAppointment(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CreateAppointmentParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	data := params.Data
	if data == "" {
		data = e.today()
	}
	if _, err := time.Parse("2006-01-02", data); err != nil {
		return fail("❌ Data non valida: %s", params.Data)
	}

	tipo := params.Tipo
	if tipo == "" {
		tipo = string(patient.Tipo)
	}
	if tipo == string(model.PatientTypePICCMED) {
		tipo = string(model.PatientTypePICC)
	}
	if tipo != string(model.PatientTypePICC) && tipo != string(model.PatientTypeMED) {
		return fail("❌ Tipo appuntamento non valido: %s", tipo)
	}

	prestazioni := params.Prestazioni
	if len(prestazioni) == 0 {
		if tipo == string(model.PatientTypePICC) {
			prestazioni = []string{"medicazione_semplice", "irrigazione_catetere"}
		} else {
			prestazioni = []string{"medicazione_semplice"}
		}
	}

	ora := params.Ora
	if ora == "" {
		slot, err := e.slots.FindAvailable(ctx, site, data, tipo, params.Turno)
		if err != nil {
			e.logger.Error(err, "slot lookup failed")
			return fail("❌ Errore durante la ricerca dello slot")
		}
		if slot == "" {
			return fail("❌ Nessuno slot disponibile il %s", data)
		}
		ora = slot
	} else {
		ok, err := e.slots.HasCapacity(ctx, model.SlotKey{
			Ambulatorio: site, Data: data, Ora: ora, Tipo: tipo,
		})
		if err != nil {
			e.logger.Error(err, "slot lookup failed")
			return fail("❌ Errore durante la verifica dello slot")
		}
		if !ok {
			return fail("⚠️ L'orario %s del %s è già al completo", ora, data)
		}
	}

	appointment := &model.Appointment{
		ID:             uuid.New().String(),
		PatientID:      patient.ID,
		PatientNome:    patient.Nome,
		PatientCognome: patient.Cognome,
		Ambulatorio:    site,
		Data:           data,
		Ora:            ora,
		Tipo:           tipo,
		Prestazioni:    prestazioni,
		Stato:          model.AppointmentStatoDaFare,
		CreatedAt:      e.now().UTC(),
	}
	if err := e.stores.Appointments.Create(ctx, appointment); err != nil {
		e.logger.Error(err, "failed to create appointment")
		return fail("❌ Errore durante la creazione dell'appuntamento")
	}

	desc := fmt.Sprintf("Appuntamento %s il %s alle %s", patient.FullName(), data, ora)
	if _, err := e.undo.Record(ctx, userID, site, model.ActionCreateAppointment, desc, model.CreatedAppointmentUndo{AppointmentID: appointment.ID}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "create_appointment")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Appuntamento per %s creato il %s alle %s (%s)", patient.FullName(), data, ora, tipo),
		CanUndo: true,
		Patient: model.NewPatientRef(patient),
	}
}

func (e *Executor) deleteAppointment(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.DeleteAppointmentParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	data := params.Data
	if data == "" {
		data = e.today()
	}
	appointment, err := e.stores.Appointments.FindOne(ctx, &model.AppointmentFilters{
		Ambulatorio: site,
		PatientID:   patient.ID,
		Data:        data,
		Ora:         params.Ora,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fail("❌ Nessun appuntamento trovato per %s il %s", patient.FullName(), data)
	}
	if err != nil {
		e.logger.Error(err, "appointment lookup failed")
		return fail("❌ Errore durante la ricerca dell'appuntamento")
	}

	if err := e.stores.Appointments.Delete(ctx, appointment.ID); err != nil {
		e.logger.Error(err, "failed to delete appointment", "appointment_id", appointment.ID)
		return fail("❌ Errore durante l'eliminazione dell'appuntamento")
	}

	desc := fmt.Sprintf("Eliminazione appuntamento %s del %s", patient.FullName(), appointment.Data)
	if _, err := e.undo.Record(ctx, userID, site, model.ActionDeleteAppointment, desc, model.DeletedAppointmentUndo{Appointment: *appointment}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "delete_appointment")
	}

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("✅ Appuntamento di %s del %s alle %s eliminato", patient.FullName(), appointment.Data, appointment.Ora),
		CanUndo: true,
	}
}
