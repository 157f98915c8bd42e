package action

import (
	"context"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// Shift names accepted from the assistant when no explicit time is given.
const (
	TurnoMattina          = "mattina"
	TurnoPomeriggio       = "pomeriggio"
	TurnoPrimoDisponibile = "primo_disponibile"
)

// Clinic opening grid, half-hour slots.
var (
	morningSlots = []string{
		"08:30", "09:00", "09:30", "10:00", "10:30", "11:00",
		"11:30", "12:00", "12:30", "13:00", "13:30",
	}
	afternoonSlots = []string{
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}
)

// Grid returns copies of the bookable times split by shift.
func Grid() (mattina, pomeriggio []string) {
	return append([]string{}, morningSlots...), append([]string{}, afternoonSlots...)
}

// SlotAllocator hands out agenda times respecting the per-slot capacity.
type SlotAllocator struct {
	appointments repository.AppointmentRepository
}

func NewSlotAllocator(appointments repository.AppointmentRepository) *SlotAllocator {
	return &SlotAllocator{appointments: appointments}
}

func slotsForTurno(turno string) []string {
	switch turno {
	case TurnoMattina:
		return morningSlots
	case TurnoPomeriggio:
		return afternoonSlots
	default:
		return append(append([]string{}, morningSlots...), afternoonSlots...)
	}
}

// FindAvailable scans the shift's slots in order and returns the first one
// with spare capacity, or "" when the whole shift is booked out.
func (s *SlotAllocator) FindAvailable(ctx context.Context, site model.Ambulatorio, data, tipo, turno string) (string, error) {
	for _, ora := range slotsForTurno(turno) {
		count, err := s.appointments.CountSlot(ctx, model.SlotKey{
			Ambulatorio: site,
			Data:        data,
			Ora:         ora,
			Tipo:        tipo,
		})
		if err != nil {
			return "", err
		}
		if count < model.SlotCapacity {
			return ora, nil
		}
	}
	return "", nil
}

// HasCapacity checks one explicit slot. Explicitly requested times are never
// silently moved; the caller reports the conflict instead.
func (s *SlotAllocator) HasCapacity(ctx context.Context, key model.SlotKey) (bool, error) {
	count, err := s.appointments.CountSlot(ctx, key)
	if err != nil {
		return false, err
	}
	return count < model.SlotCapacity, nil
}
