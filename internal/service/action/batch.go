package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// Batch actions tolerate per-item failures: every item is attempted, errors
// are collected into the message, and the undo entry covers only the items
// that went through.

func (e *Executor) createMultiplePatients(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage, kind model.ActionKind) *model.ActionResult {
	var params model.MultiplePatientsParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	if len(params.Patients) == 0 {
		return fail("❌ Nessun paziente da creare")
	}

	tipoDefault := params.TipoDefault
	switch tipoDefault {
	case model.PatientTypePICC, model.PatientTypeMED, model.PatientTypePICCMED:
	default:
		tipoDefault = model.PatientTypePICC
	}

	var created []string
	var createdIDs []string
	var failures []string
	for _, item := range params.Patients {
		if item.Nome == "" || item.Cognome == "" {
			failures = append(failures, fmt.Sprintf("%s %s: nome o cognome mancante", item.Cognome, item.Nome))
			continue
		}
		tipo := item.Tipo
		switch tipo {
		case model.PatientTypePICC, model.PatientTypeMED, model.PatientTypePICCMED:
		default:
			tipo = tipoDefault
		}
		now := e.now().UTC()
		patient := &model.Patient{
			ID:          uuid.New().String(),
			Nome:        item.Nome,
			Cognome:     item.Cognome,
			Tipo:        tipo,
			Ambulatorio: site,
			Status:      model.PatientStatusInCura,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := e.stores.Patients.Create(ctx, patient); err != nil {
			e.logger.Error(err, "failed to create patient in batch")
			failures = append(failures, fmt.Sprintf("%s: errore di salvataggio", patient.FullName()))
			continue
		}
		created = append(created, patient.FullName())
		createdIDs = append(createdIDs, patient.ID)
	}

	if len(createdIDs) == 0 {
		return fail("❌ Nessun paziente creato. %s", strings.Join(failures, "; "))
	}

	desc := fmt.Sprintf("Creazione di %d pazienti", len(createdIDs))
	if _, err := e.undo.Record(ctx, userID, site, kind, desc, model.CreatedPatientsUndo{PatientIDs: createdIDs}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", string(kind))
	}

	msg := fmt.Sprintf("✅ Creati %d pazienti: %s", len(created), strings.Join(created, ", "))
	if len(failures) > 0 {
		msg += fmt.Sprintf("\n⚠️ Non creati: %s", strings.Join(failures, "; "))
	}
	return &model.ActionResult{Success: true, Message: msg, CanUndo: true}
}

func (e *Executor) changeStatusMultiple(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage, kind model.ActionKind) *model.ActionResult {
	var params model.PatientNamesParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	if len(params.PatientNames) == 0 {
		return fail("❌ Nessun paziente indicato")
	}

	var done []string
	var changes []model.StatusChangeUndo
	var failures []string
	for _, name := range params.PatientNames {
		patient, err := e.resolver.Resolve(ctx, site, name)
		if errors.Is(err, repository.ErrNotFound) {
			failures = append(failures, fmt.Sprintf("%s: non trovato", name))
			continue
		}
		if err != nil {
			e.logger.Error(err, "patient resolution failed in batch", "name", name)
			failures = append(failures, fmt.Sprintf("%s: errore di ricerca", name))
			continue
		}
		change, errRes := e.applyStatusChange(ctx, patient, kind)
		if errRes != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", patient.FullName(), strings.TrimLeft(errRes.Message, "⚠️❌ ")))
			continue
		}
		done = append(done, patient.FullName())
		changes = append(changes, *change)
	}

	if len(changes) == 0 {
		return fail("❌ Nessun paziente aggiornato. %s", strings.Join(failures, "; "))
	}

	desc := fmt.Sprintf("%s di %d pazienti", statusChangeLabel(kind), len(changes))
	if _, err := e.undo.Record(ctx, userID, site, kind, desc, model.StatusChangesUndo{Changes: changes}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", string(kind))
	}

	var verb string
	switch kind {
	case model.ActionSuspendMultiplePatients:
		verb = "sospesi"
	case model.ActionResumeMultiplePatients:
		verb = "riattivati"
	default:
		verb = "dimessi"
	}
	msg := fmt.Sprintf("✅ %d pazienti %s: %s", len(done), verb, strings.Join(done, ", "))
	if len(failures) > 0 {
		msg += fmt.Sprintf("\n⚠️ Errori: %s", strings.Join(failures, "; "))
	}
	return &model.ActionResult{Success: true, Message: msg, CanUndo: true}
}

func (e *Executor) deleteMultiplePatients(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PatientNamesParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	if len(params.PatientNames) == 0 {
		return fail("❌ Nessun paziente indicato")
	}

	var deleted []string
	var backups []model.PatientBackup
	var failures []string
	for _, name := range params.PatientNames {
		patient, err := e.resolver.Resolve(ctx, site, name)
		if errors.Is(err, repository.ErrNotFound) {
			failures = append(failures, fmt.Sprintf("%s: non trovato", name))
			continue
		}
		if err != nil {
			e.logger.Error(err, "patient resolution failed in batch", "name", name)
			failures = append(failures, fmt.Sprintf("%s: errore di ricerca", name))
			continue
		}
		backup, err := e.collectBackup(ctx, patient)
		if err != nil {
			e.logger.Error(err, "failed to snapshot patient in batch", "patient_id", patient.ID)
			failures = append(failures, fmt.Sprintf("%s: errore di backup", patient.FullName()))
			continue
		}
		if err := e.cascadeDelete(ctx, patient.ID); err != nil {
			e.logger.Error(err, "failed to delete patient in batch", "patient_id", patient.ID)
			failures = append(failures, fmt.Sprintf("%s: errore di eliminazione", patient.FullName()))
			continue
		}
		deleted = append(deleted, patient.FullName())
		backups = append(backups, *backup)
	}

	if len(backups) == 0 {
		return fail("❌ Nessun paziente eliminato. %s", strings.Join(failures, "; "))
	}

	desc := fmt.Sprintf("Eliminazione di %d pazienti", len(backups))
	if _, err := e.undo.Record(ctx, userID, site, model.ActionDeleteMultiplePatients, desc, model.DeletedPatientsUndo{Backups: backups}); err != nil {
		e.logger.Error(err, "failed to record undo entry", "action", "delete_multiple_patients")
	}

	msg := fmt.Sprintf("✅ Eliminati %d pazienti: %s", len(deleted), strings.Join(deleted, ", "))
	if len(failures) > 0 {
		msg += fmt.Sprintf("\n⚠️ Errori: %s", strings.Join(failures, "; "))
	}
	return &model.ActionResult{Success: true, Message: msg, CanUndo: true}
}
