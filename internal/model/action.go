package model

import (
	"encoding/json"
)

// ActionKind is the closed vocabulary of operations the assistant may request.
// Adding a kind requires a forward branch in the executor and, when the kind is
// reversible, a matching reversal branch in the undo service.
type ActionKind string

const (
	ActionCreatePatient    ActionKind = "create_patient"
	ActionDeletePatient    ActionKind = "delete_patient"
	ActionSuspendPatient   ActionKind = "suspend_patient"
	ActionResumePatient    ActionKind = "resume_patient"
	ActionDischargePatient ActionKind = "discharge_patient"
	ActionSearchPatient    ActionKind = "search_patient"
	ActionOpenPatient      ActionKind = "open_patient"

	ActionCreateAppointment ActionKind = "create_appointment"
	ActionDeleteAppointment ActionKind = "delete_appointment"

	ActionCreateSchedaImpianto   ActionKind = "create_scheda_impianto"
	ActionCopySchedaMed          ActionKind = "copy_scheda_med"
	ActionCopySchedaGestionePICC ActionKind = "copy_scheda_gestione_picc"

	ActionCreateMultiplePatients    ActionKind = "create_multiple_patients"
	ActionSuspendMultiplePatients   ActionKind = "suspend_multiple_patients"
	ActionResumeMultiplePatients    ActionKind = "resume_multiple_patients"
	ActionDischargeMultiplePatients ActionKind = "discharge_multiple_patients"
	ActionDeleteMultiplePatients    ActionKind = "delete_multiple_patients"
	ActionAddExtractedPatients      ActionKind = "add_extracted_patients"

	ActionGetPatientsCount         ActionKind = "get_patients_count"
	ActionGetImplantStatistics     ActionKind = "get_implant_statistics"
	ActionGetPrestazioniStatistics ActionKind = "get_prestazioni_statistics"
	ActionCompareStatistics        ActionKind = "compare_statistics"
	ActionGetStatistics            ActionKind = "get_statistics" // legacy alias
	ActionPrintPatientFolder       ActionKind = "print_patient_folder"

	ActionUndo     ActionKind = "undo_action"
	ActionListUndo ActionKind = "list_undo_actions"
)

// AIAction is a structured command parsed out of the language model's reply.
// Params stay raw until the executor decodes them into the kind's own struct.
type AIAction struct {
	Action  ActionKind      `json:"action"`
	Params  json.RawMessage `json:"params"`
	Message string          `json:"message,omitempty"`
}

// ActionResult is the executor's answer for any kind: never an error, always a
// structured outcome with a user-facing message.
type ActionResult struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	CanUndo    bool        `json:"can_undo,omitempty"`
	ActionType ActionKind  `json:"action_type,omitempty"`
	Patient    *PatientRef `json:"patient,omitempty"`
	Patients   []*Patient  `json:"patients,omitempty"`
	NavigateTo string      `json:"navigate_to,omitempty"`

	// Download handle for print/export style actions; rendering itself is
	// done by the documents layer, the executor only points at it.
	PDFEndpoint string `json:"pdf_endpoint,omitempty"`
	Filename    string `json:"filename,omitempty"`

	// Counters and per-kind extras surfaced to the frontend.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// PatientRef is the short patient identity echoed back for the frontend's
// contextual memory.
type PatientRef struct {
	ID      string      `json:"id"`
	Cognome string      `json:"cognome"`
	Nome    string      `json:"nome"`
	Tipo    PatientType `json:"tipo"`
}

func NewPatientRef(p *Patient) *PatientRef {
	return &PatientRef{ID: p.ID, Cognome: p.Cognome, Nome: p.Nome, Tipo: p.Tipo}
}

// Per-kind parameter records. The executor decodes AIAction.Params into one of
// these; unknown JSON keys are ignored, missing ones yield zero values that the
// branch validates itself.

type CreatePatientParams struct {
	Nome    string      `json:"nome"`
	Cognome string      `json:"cognome"`
	Tipo    PatientType `json:"tipo"`
}

type PatientNameParams struct {
	PatientName string `json:"patient_name"`
}

type SearchPatientParams struct {
	Query string `json:"query"`
}

type CreateAppointmentParams struct {
	PatientName string   `json:"patient_name"`
	Data        string   `json:"data"`
	Ora         string   `json:"ora"`
	Turno       string   `json:"turno"`
	Tipo        string   `json:"tipo"`
	Prestazioni []string `json:"prestazioni"`
}

type DeleteAppointmentParams struct {
	PatientName string `json:"patient_name"`
	Data        string `json:"data"`
	Ora         string `json:"ora"`
}

type CreateSchedaImpiantoParams struct {
	PatientName  string `json:"patient_name"`
	TipoCatetere string `json:"tipo_catetere"`
	DataImpianto string `json:"data_impianto"`
}

type CopySchedaParams struct {
	PatientName string `json:"patient_name"`
	NuovaData   string `json:"nuova_data"`
}

type MultiplePatientsParams struct {
	Patients    []CreatePatientParams `json:"patients"`
	TipoDefault PatientType           `json:"tipo_default"`
}

type PatientNamesParams struct {
	PatientNames []string `json:"patient_names"`
}

type PatientsCountParams struct {
	Tipo  string `json:"tipo"`
	Stato string `json:"stato"`
}

type ImplantStatisticsParams struct {
	TipoImpianto string `json:"tipo_impianto"`
	Anno         int    `json:"anno"`
	Mese         int    `json:"mese"`
	GeneratePDF  bool   `json:"generate_pdf"`
}

type PrestazioniStatisticsParams struct {
	Tipo        string `json:"tipo"`
	Anno        int    `json:"anno"`
	Mese        int    `json:"mese"`
	GeneratePDF bool   `json:"generate_pdf"`
}

type StatisticsPeriod struct {
	Anno int `json:"anno"`
	Mese int `json:"mese"`
}

type CompareStatisticsParams struct {
	Tipo        string           `json:"tipo"`
	Periodo1    StatisticsPeriod `json:"periodo1"`
	Periodo2    StatisticsPeriod `json:"periodo2"`
	GeneratePDF bool             `json:"generate_pdf"`
}

type PrintPatientFolderParams struct {
	PatientName string `json:"patient_name"`
	Sezione     string `json:"sezione"`
}

type UndoParams struct {
	ActionID string `json:"action_id"`
}
