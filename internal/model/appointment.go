package model

import (
	"time"
)

type AppointmentStato string

const (
	AppointmentStatoDaFare         AppointmentStato = "da_fare"
	AppointmentStatoEffettuato     AppointmentStato = "effettuato"
	AppointmentStatoNonPresentato  AppointmentStato = "non_presentato"
)

// SlotCapacity is the maximum number of appointments sharing the same
// (ambulatorio, data, ora, tipo). Enforced at creation time, not by the store.
const SlotCapacity = 2

type Appointment struct {
	ID             string           `bson:"id" json:"id"`
	PatientID      string           `bson:"patient_id" json:"patient_id"`
	PatientNome    string           `bson:"patient_nome,omitempty" json:"patient_nome,omitempty"`
	PatientCognome string           `bson:"patient_cognome,omitempty" json:"patient_cognome,omitempty"`
	Ambulatorio    Ambulatorio      `bson:"ambulatorio" json:"ambulatorio"`
	Data           string           `bson:"data" json:"data"` // YYYY-MM-DD
	Ora            string           `bson:"ora" json:"ora"`   // HH:MM
	Tipo           string           `bson:"tipo" json:"tipo"` // PICC or MED
	Prestazioni    []string         `bson:"prestazioni" json:"prestazioni"`
	Note           string           `bson:"note,omitempty" json:"note,omitempty"`
	Stato          AppointmentStato `bson:"stato" json:"stato"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	PatientID   string      `json:"patient_id" binding:"required"`
	Ambulatorio Ambulatorio `json:"ambulatorio" binding:"required"`
	Data        string      `json:"data" binding:"required,clinicdate"`
	Ora         string      `json:"ora" binding:"required,clinicslot"`
	Tipo        string      `json:"tipo" binding:"required,oneof=PICC MED"`
	Prestazioni []string    `json:"prestazioni"`
	Note        string      `json:"note"`
}

type UpdateAppointmentRequest struct {
	Data        *string           `json:"data" binding:"omitempty,clinicdate"`
	Ora         *string           `json:"ora" binding:"omitempty,clinicslot"`
	Prestazioni *[]string         `json:"prestazioni"`
	Note        *string           `json:"note"`
	Stato       *AppointmentStato `json:"stato"`
}

type AppointmentFilters struct {
	Ambulatorio Ambulatorio
	PatientID   string
	Data        string
	DataFrom    string
	DataTo      string
	Ora         string
	Stato       AppointmentStato
	Limit       int64
}

// SlotKey identifies one capacity bucket on the agenda.
type SlotKey struct {
	Ambulatorio Ambulatorio
	Data        string
	Ora         string
	Tipo        string
}
