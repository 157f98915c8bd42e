package model

import "time"

// ClosedSlot blocks agenda bookings. An empty Ora closes the whole day, an
// empty Tipo closes the slot for both PICC and MED.
type ClosedSlot struct {
	ID          string      `bson:"id" json:"id"`
	Data        string      `bson:"data" json:"data"`
	Ambulatorio Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	Ora         string      `bson:"ora,omitempty" json:"ora,omitempty"`
	Tipo        string      `bson:"tipo,omitempty" json:"tipo,omitempty"`
	Motivo      string      `bson:"motivo" json:"motivo"`
	CreatedBy   string      `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
}

// CreateClosedSlotsRequest closes one or more slots of a day. Ora left empty
// closes the entire day.
type CreateClosedSlotsRequest struct {
	Data        string      `json:"data" binding:"required"`
	Ambulatorio Ambulatorio `json:"ambulatorio" binding:"required"`
	Ora         []string    `json:"ora"`
	Tipo        string      `json:"tipo" binding:"omitempty,oneof=PICC MED"`
	Motivo      string      `json:"motivo"`
}

type ReopenDayRequest struct {
	Ambulatorio Ambulatorio `json:"ambulatorio" binding:"required"`
	Data        string      `json:"data" binding:"required"`
}

// ClosedSlotFilters narrows a listing to one day or an inclusive date range.
type ClosedSlotFilters struct {
	Ambulatorio Ambulatorio
	Data        string
	DataFrom    string
	DataTo      string
}
