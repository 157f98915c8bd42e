package model

import (
	"time"
)

// SchedaImpiantoPICC is the catheter implant record. Only the fields the
// assistant fills are first-class; the full clinical form round-trips through
// Extra so copies and undo snapshots never lose data.
type SchedaImpiantoPICC struct {
	ID                string                 `bson:"id" json:"id"`
	PatientID         string                 `bson:"patient_id" json:"patient_id"`
	Ambulatorio       Ambulatorio            `bson:"ambulatorio" json:"ambulatorio"`
	SchedaType        string                 `bson:"scheda_type" json:"scheda_type"` // semplificata or completa
	TipoCatetere      string                 `bson:"tipo_catetere,omitempty" json:"tipo_catetere,omitempty"`
	DataImpianto      string                 `bson:"data_impianto,omitempty" json:"data_impianto,omitempty"`
	DataPosizionamento string                `bson:"data_posizionamento,omitempty" json:"data_posizionamento,omitempty"`
	Operatore         string                 `bson:"operatore,omitempty" json:"operatore,omitempty"`
	Note              string                 `bson:"note,omitempty" json:"note,omitempty"`
	Extra             map[string]interface{} `bson:"extra,omitempty" json:"extra,omitempty"`
	CreatedAt         time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time              `bson:"updated_at" json:"updated_at"`
}

// SchedaMedicazioneMED is the wound-dressing record.
type SchedaMedicazioneMED struct {
	ID               string      `bson:"id" json:"id"`
	Codice           string      `bson:"codice,omitempty" json:"codice,omitempty"`
	PatientID        string      `bson:"patient_id" json:"patient_id"`
	Ambulatorio      Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	DataCompilazione string      `bson:"data_compilazione" json:"data_compilazione"`
	Fondo            []string    `bson:"fondo,omitempty" json:"fondo,omitempty"`
	Margini          []string    `bson:"margini,omitempty" json:"margini,omitempty"`
	CutePerilesionale []string   `bson:"cute_perilesionale,omitempty" json:"cute_perilesionale,omitempty"`
	EssudatoQuantita string      `bson:"essudato_quantita,omitempty" json:"essudato_quantita,omitempty"`
	EssudatoTipo     []string    `bson:"essudato_tipo,omitempty" json:"essudato_tipo,omitempty"`
	Medicazione      string      `bson:"medicazione,omitempty" json:"medicazione,omitempty"`
	ProssimoCambio   string      `bson:"prossimo_cambio,omitempty" json:"prossimo_cambio,omitempty"`
	Firma            string      `bson:"firma,omitempty" json:"firma,omitempty"`
	FotoIDs          []string    `bson:"foto_ids,omitempty" json:"foto_ids,omitempty"`
	CreatedAt        time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `bson:"updated_at" json:"updated_at"`
}

// SchedaGestionePICC is the monthly catheter-management record: one document
// per month with per-day sub-entries keyed by YYYY-MM-DD.
type SchedaGestionePICC struct {
	ID          string                            `bson:"id" json:"id"`
	PatientID   string                            `bson:"patient_id" json:"patient_id"`
	Ambulatorio Ambulatorio                       `bson:"ambulatorio" json:"ambulatorio"`
	Mese        string                            `bson:"mese" json:"mese"` // YYYY-MM
	Giorni      map[string]map[string]interface{} `bson:"giorni" json:"giorni"`
	Note        string                            `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt   time.Time                         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                         `bson:"updated_at" json:"updated_at"`
}

type Prescrizione struct {
	ID          string      `bson:"id" json:"id"`
	PatientID   string      `bson:"patient_id" json:"patient_id"`
	Ambulatorio Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	Mese        string      `bson:"mese" json:"mese"` // YYYY-MM
	Testo       string      `bson:"testo" json:"testo"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}
