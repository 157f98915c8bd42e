package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

type Service struct {
	photos repository.PhotoRepository
}

func NewService(photos repository.PhotoRepository) *Service {
	return &Service{photos: photos}
}

// Upload stores the file inline as base64. The broad file category is derived
// from the MIME type when the caller did not name one.
func (s *Service) Upload(ctx context.Context, req *model.UploadPhotoRequest, content []byte, filename, mimeType string) (*model.Photo, error) {
	photo := &model.Photo{
		ID:           uuid.New().String(),
		PatientID:    req.PatientID,
		Ambulatorio:  req.Ambulatorio,
		Tipo:         req.Tipo,
		Descrizione:  req.Descrizione,
		Data:         req.Data,
		ImageData:    base64.StdEncoding.EncodeToString(content),
		FileType:     fileType(req.FileType, mimeType),
		OriginalName: req.OriginalName,
		MimeType:     mimeType,
		SchedaMedID:  req.SchedaMedID,
		CreatedAt:    time.Now().UTC(),
	}
	if photo.OriginalName == "" {
		photo.OriginalName = filename
	}
	// The frontend sends "pending" while the owning scheda is still unsaved.
	if photo.SchedaMedID == "pending" {
		photo.SchedaMedID = ""
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, apperrors.Internal(err)
	}
	return photo, nil
}

func fileType(requested, mimeType string) string {
	if requested != "" && requested != "image" {
		return requested
	}
	switch {
	case strings.Contains(mimeType, "pdf"):
		return "pdf"
	case strings.Contains(mimeType, "word"), strings.Contains(mimeType, "document"):
		return "word"
	case strings.Contains(mimeType, "excel"), strings.Contains(mimeType, "spreadsheet"):
		return "excel"
	default:
		return "image"
	}
}

func (s *Service) Get(ctx context.Context, id string) (*model.Photo, error) {
	photo, err := s.photos.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("photo", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return photo, nil
}

func (s *Service) List(ctx context.Context, patientID string, site model.Ambulatorio, tipo string) ([]*model.Photo, error) {
	photos, err := s.photos.ListByPatient(ctx, patientID, site, tipo)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return photos, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.photos.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("photo", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
