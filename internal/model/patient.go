package model

import (
	"time"
)

type PatientType string

const (
	PatientTypePICC    PatientType = "PICC"
	PatientTypeMED     PatientType = "MED"
	PatientTypePICCMED PatientType = "PICC_MED"
)

type PatientStatus string

const (
	PatientStatusInCura  PatientStatus = "in_cura"
	PatientStatusSospeso PatientStatus = "sospeso"
	PatientStatusDimesso PatientStatus = "dimesso"
)

// Ambulatorio is a clinic site. Every record belongs to exactly one site and
// users carry an explicit list of sites they may operate on.
type Ambulatorio string

const (
	AmbulatorioPTACentro     Ambulatorio = "pta_centro"
	AmbulatorioVillaGinestre Ambulatorio = "villa_ginestre"
)

func (a Ambulatorio) Valid() bool {
	switch a {
	case AmbulatorioPTACentro, AmbulatorioVillaGinestre:
		return true
	}
	return false
}

type Patient struct {
	ID             string        `bson:"id" json:"id"`
	CodicePaziente string        `bson:"codice_paziente,omitempty" json:"codice_paziente,omitempty"`
	Nome           string        `bson:"nome" json:"nome"`
	Cognome        string        `bson:"cognome" json:"cognome"`
	Tipo           PatientType   `bson:"tipo" json:"tipo"`
	Ambulatorio    Ambulatorio   `bson:"ambulatorio" json:"ambulatorio"`
	Status         PatientStatus `bson:"status" json:"status"`
	DataNascita    string        `bson:"data_nascita,omitempty" json:"data_nascita,omitempty"`
	CodiceFiscale  string        `bson:"codice_fiscale,omitempty" json:"codice_fiscale,omitempty"`
	Telefono       string        `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Email          string        `bson:"email,omitempty" json:"email,omitempty"`
	MedicoBase     string        `bson:"medico_base,omitempty" json:"medico_base,omitempty"`
	Anamnesi       string        `bson:"anamnesi,omitempty" json:"anamnesi,omitempty"`
	TerapiaInAtto  string        `bson:"terapia_in_atto,omitempty" json:"terapia_in_atto,omitempty"`
	Allergie       string        `bson:"allergie,omitempty" json:"allergie,omitempty"`
	DataDimissione string        `bson:"data_dimissione,omitempty" json:"data_dimissione,omitempty"`
	DischargeNotes string        `bson:"discharge_notes,omitempty" json:"discharge_notes,omitempty"`
	SuspendNotes   string        `bson:"suspend_notes,omitempty" json:"suspend_notes,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.Cognome + " " + p.Nome
}

type CreatePatientRequest struct {
	Nome          string      `json:"nome" binding:"required"`
	Cognome       string      `json:"cognome" binding:"required"`
	Tipo          PatientType `json:"tipo" binding:"required,oneof=PICC MED PICC_MED"`
	Ambulatorio   Ambulatorio `json:"ambulatorio" binding:"required"`
	DataNascita   string      `json:"data_nascita"`
	CodiceFiscale string      `json:"codice_fiscale"`
	Telefono      string      `json:"telefono"`
	Email         string      `json:"email" binding:"omitempty,email"`
	MedicoBase    string      `json:"medico_base"`
	Anamnesi      string      `json:"anamnesi"`
	TerapiaInAtto string      `json:"terapia_in_atto"`
	Allergie      string      `json:"allergie"`
}

type UpdatePatientRequest struct {
	Nome          *string        `json:"nome"`
	Cognome       *string        `json:"cognome"`
	Tipo          *PatientType   `json:"tipo"`
	DataNascita   *string        `json:"data_nascita"`
	CodiceFiscale *string        `json:"codice_fiscale"`
	Telefono      *string        `json:"telefono"`
	Email         *string        `json:"email" binding:"omitempty,email"`
	MedicoBase    *string        `json:"medico_base"`
	Anamnesi      *string        `json:"anamnesi"`
	TerapiaInAtto *string        `json:"terapia_in_atto"`
	Allergie      *string        `json:"allergie"`
	Status        *PatientStatus `json:"status"`
}

type BatchCreatePatientsRequest struct {
	Patients []CreatePatientRequest `json:"patients" binding:"required,min=1,dive"`
}

type BatchStatusRequest struct {
	PatientIDs     []string      `json:"patient_ids" binding:"required,min=1"`
	Status         PatientStatus `json:"status" binding:"required,oneof=in_cura sospeso dimesso"`
	DischargeNotes string        `json:"discharge_notes"`
	SuspendNotes   string        `json:"suspend_notes"`
}

type BatchDeleteRequest struct {
	PatientIDs []string `json:"patient_ids" binding:"required,min=1"`
}

type BatchPatientRef struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

type BatchError struct {
	Patient string `json:"patient"`
	Error   string `json:"error"`
}

// BatchResult reports a per-item outcome. A batch never fails as a whole; each
// rejected item carries its own reason.
type BatchResult struct {
	Processed    int               `json:"processed"`
	Failed       int               `json:"failed"`
	Patients     []BatchPatientRef `json:"patients"`
	ErrorDetails []BatchError      `json:"error_details"`
}

// PatientFilters narrows a site-scoped listing. Search matches nome or cognome
// as a case-insensitive substring.
type PatientFilters struct {
	Ambulatorio Ambulatorio
	Tipo        PatientType
	Status      PatientStatus
	Search      string
	Limit       int64
}
