package model

import "time"

// Photo is a patient attachment stored inline as base64. Wound photos and
// scanned documents share the collection; FileType tells them apart.
type Photo struct {
	ID           string      `bson:"id" json:"id"`
	PatientID    string      `bson:"patient_id" json:"patient_id"`
	Ambulatorio  Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	Tipo         string      `bson:"tipo" json:"tipo"`
	Descrizione  string      `bson:"descrizione,omitempty" json:"descrizione,omitempty"`
	Data         string      `bson:"data" json:"data"`
	ImageData    string      `bson:"image_data" json:"image_data"`
	FileType     string      `bson:"file_type,omitempty" json:"file_type,omitempty"`
	OriginalName string      `bson:"original_name,omitempty" json:"original_name,omitempty"`
	MimeType     string      `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	SchedaMedID  string      `bson:"scheda_med_id,omitempty" json:"scheda_med_id,omitempty"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
}

// UploadPhotoRequest carries the multipart form fields; the file content
// arrives separately and is base64-encoded before storage.
type UploadPhotoRequest struct {
	PatientID    string      `form:"patient_id" binding:"required"`
	Ambulatorio  Ambulatorio `form:"ambulatorio" binding:"required"`
	Tipo         string      `form:"tipo" binding:"required"`
	Data         string      `form:"data" binding:"required"`
	Descrizione  string      `form:"descrizione"`
	FileType     string      `form:"file_type"`
	OriginalName string      `form:"original_name"`
	SchedaMedID  string      `form:"scheda_med_id"`
}
