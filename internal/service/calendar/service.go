package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	"github.com/medhub/ambulatorio-api/internal/service/action"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

// Easter falls on a different date every year; the agenda only needs a few
// years ahead, so the dates are kept in a lookup table.
var easterDates = map[int]string{
	2026: "2026-04-05",
	2027: "2027-03-28",
	2028: "2028-04-16",
	2029: "2029-04-01",
	2030: "2030-04-21",
}

// TimeSlots is the clinic opening grid split by shift.
type TimeSlots struct {
	Mattina    []string `json:"mattina"`
	Pomeriggio []string `json:"pomeriggio"`
	Tutti      []string `json:"tutti"`
}

type Service struct {
	closed repository.ClosedSlotRepository
}

func NewService(closed repository.ClosedSlotRepository) *Service {
	return &Service{closed: closed}
}

// Holidays returns the closure dates for the given year, civic and religious
// holidays observed in Palermo plus Easter and Easter Monday when known.
func (s *Service) Holidays(year int) []string {
	holidays := []string{
		fmt.Sprintf("%d-01-01", year), // Capodanno
		fmt.Sprintf("%d-01-06", year), // Epifania
		fmt.Sprintf("%d-04-25", year), // Liberazione
		fmt.Sprintf("%d-05-01", year), // Festa del Lavoro
		fmt.Sprintf("%d-06-02", year), // Festa della Repubblica
		fmt.Sprintf("%d-07-15", year), // Santa Rosalia
		fmt.Sprintf("%d-08-15", year), // Ferragosto
		fmt.Sprintf("%d-11-01", year), // Ognissanti
		fmt.Sprintf("%d-12-08", year), // Immacolata
		fmt.Sprintf("%d-12-25", year), // Natale
		fmt.Sprintf("%d-12-26", year), // Santo Stefano
	}
	if easter, ok := easterDates[year]; ok {
		holidays = append(holidays, easter)
		if day, err := time.Parse("2006-01-02", easter); err == nil {
			holidays = append(holidays, day.AddDate(0, 0, 1).Format("2006-01-02"))
		}
	}
	return holidays
}

// Slots returns the bookable half-hour grid.
func (s *Service) Slots() TimeSlots {
	mattina, pomeriggio := action.Grid()
	return TimeSlots{
		Mattina:    mattina,
		Pomeriggio: pomeriggio,
		Tutti:      append(append([]string{}, mattina...), pomeriggio...),
	}
}

// CloseSlots blocks the requested times of a day, one record per time. No
// times means the whole day. Already-closed slots are skipped, not duplicated.
func (s *Service) CloseSlots(ctx context.Context, userID string, req *model.CreateClosedSlotsRequest) ([]*model.ClosedSlot, error) {
	motivo := req.Motivo
	if motivo == "" {
		motivo = "Chiuso"
	}
	orari := req.Ora
	if len(orari) == 0 {
		orari = []string{""}
	}

	var created []*model.ClosedSlot
	for _, ora := range orari {
		exists, err := s.closed.Exists(ctx, req.Ambulatorio, req.Data, ora, req.Tipo)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if exists {
			continue
		}
		slot := &model.ClosedSlot{
			ID:          uuid.New().String(),
			Data:        req.Data,
			Ambulatorio: req.Ambulatorio,
			Ora:         ora,
			Tipo:        req.Tipo,
			Motivo:      motivo,
			CreatedBy:   userID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.closed.Create(ctx, slot); err != nil {
			return nil, apperrors.Internal(err)
		}
		created = append(created, slot)
	}
	return created, nil
}

// ClosedSlots lists the blocked slots of a site, optionally narrowed to one
// day or a date range.
func (s *Service) ClosedSlots(ctx context.Context, filters *model.ClosedSlotFilters) ([]*model.ClosedSlot, error) {
	slots, err := s.closed.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return slots, nil
}

// ClosedSlot returns one blocked slot so the caller can check the site before
// reopening it.
func (s *Service) ClosedSlot(ctx context.Context, id string) (*model.ClosedSlot, error) {
	slot, err := s.closed.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("closed slot", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return slot, nil
}

func (s *Service) Reopen(ctx context.Context, id string) error {
	err := s.closed.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("closed slot", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ReopenDay removes every closed slot of the day and reports how many fell.
func (s *Service) ReopenDay(ctx context.Context, site model.Ambulatorio, data string) (int64, error) {
	count, err := s.closed.DeleteByDay(ctx, site, data)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}
