package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// UndoRetention is how many reversible actions are kept per (user, site).
// Older entries are evicted right after each insert.
const UndoRetention = 10

// UndoEntry is one reversible state transition. UndoData is a kind-tagged BSON
// document: the reversal branch for ActionType knows which payload struct to
// decode it into.
type UndoEntry struct {
	ID                string      `bson:"id" json:"id"`
	UserID            string      `bson:"user_id" json:"user_id"`
	Ambulatorio       Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	ActionType        ActionKind  `bson:"action_type" json:"action_type"`
	ActionDescription string      `bson:"action_description" json:"action_description"`
	UndoData          bson.Raw    `bson:"undo_data" json:"-"`
	Timestamp         time.Time   `bson:"timestamp" json:"timestamp"`
}

// EncodeUndoPayload marshals a payload struct for storage in an UndoEntry.
func EncodeUndoPayload(payload interface{}) (bson.Raw, error) {
	raw, err := bson.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode undo payload: %w", err)
	}
	return bson.Raw(raw), nil
}

// DecodeUndoPayload unmarshals an entry's payload into the kind's own struct.
func DecodeUndoPayload(raw bson.Raw, out interface{}) error {
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode undo payload: %w", err)
	}
	return nil
}

// CreatedPatientUndo reverses create_patient: delete the patient again.
type CreatedPatientUndo struct {
	PatientID string `bson:"patient_id"`
}

// PatientBackup is the full pre-deletion snapshot of a patient and every
// dependent record, sufficient to recreate all of them byte for byte.
type PatientBackup struct {
	Patient        Patient                `bson:"patient"`
	Appointments   []Appointment          `bson:"appointments,omitempty"`
	SchedeImpianto []SchedaImpiantoPICC   `bson:"schede_impianto,omitempty"`
	SchedeGestione []SchedaGestionePICC   `bson:"schede_gestione,omitempty"`
	SchedeMed      []SchedaMedicazioneMED `bson:"schede_med,omitempty"`
	Prescrizioni   []Prescrizione         `bson:"prescrizioni,omitempty"`
}

// DeletedPatientUndo reverses delete_patient: re-insert the whole snapshot.
type DeletedPatientUndo struct {
	Backup PatientBackup `bson:"backup"`
}

// StatusChangeUndo reverses suspend/resume/discharge. PreviousDataDimissione
// is nil when the forward action did not touch the discharge date.
type StatusChangeUndo struct {
	PatientID              string        `bson:"patient_id"`
	PreviousStatus         PatientStatus `bson:"previous_status"`
	PreviousDataDimissione *string       `bson:"previous_data_dimissione,omitempty"`
}

type CreatedAppointmentUndo struct {
	AppointmentID string `bson:"appointment_id"`
}

type DeletedAppointmentUndo struct {
	Appointment Appointment `bson:"appointment"`
}

// CreatedSchedaUndo reverses create_scheda_impianto and copy_scheda_med; the
// entry's ActionType picks the collection the scheda is deleted from.
type CreatedSchedaUndo struct {
	SchedaID string `bson:"scheda_id"`
}

// GestioneDayUndo reverses copy_scheda_gestione_picc: unset one day sub-entry.
type GestioneDayUndo struct {
	SchedaID string `bson:"scheda_id"`
	DayKey   string `bson:"day_key"`
}

type CreatedPatientsUndo struct {
	PatientIDs []string `bson:"patient_ids"`
}

type StatusChangesUndo struct {
	Changes []StatusChangeUndo `bson:"changes"`
}

type DeletedPatientsUndo struct {
	Backups []PatientBackup `bson:"backups"`
}
