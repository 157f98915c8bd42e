package stats

import (
	"context"
	"fmt"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// Period is a half-open date range [From, To) with a human label such as
// "03/2026" or "2026".
type Period struct {
	From  string
	To    string
	Label string
}

// MonthRange builds the range for one month, or the whole year when mese is
// zero.
func MonthRange(anno, mese int) Period {
	if mese == 0 {
		return Period{
			From:  fmt.Sprintf("%04d-01-01", anno),
			To:    fmt.Sprintf("%04d-01-01", anno+1),
			Label: fmt.Sprintf("%d", anno),
		}
	}
	nextAnno, nextMese := anno, mese+1
	if nextMese > 12 {
		nextAnno, nextMese = anno+1, 1
	}
	return Period{
		From:  fmt.Sprintf("%04d-%02d-01", anno, mese),
		To:    fmt.Sprintf("%04d-%02d-01", nextAnno, nextMese),
		Label: fmt.Sprintf("%02d/%d", mese, anno),
	}
}

// PrestazioniStats is the workload summary for a period: total appointments
// plus how many times each prestazione was booked.
type PrestazioniStats struct {
	Total          int
	PerPrestazione map[string]int
}

type Service struct {
	patients       repository.PatientRepository
	appointments   repository.AppointmentRepository
	schedeImpianto repository.SchedaImpiantoRepository
}

func NewService(
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	schedeImpianto repository.SchedaImpiantoRepository,
) *Service {
	return &Service{
		patients:       patients,
		appointments:   appointments,
		schedeImpianto: schedeImpianto,
	}
}

// PatientsCount counts the site's patients, optionally narrowed by tipo and
// status, and returns the per-status breakdown of the matched set.
func (s *Service) PatientsCount(ctx context.Context, site model.Ambulatorio, tipo model.PatientType, status model.PatientStatus) (int, map[string]int, error) {
	patients, err := s.patients.List(ctx, &model.PatientFilters{
		Ambulatorio: site,
		Tipo:        tipo,
		Status:      status,
	})
	if err != nil {
		return 0, nil, err
	}
	byStatus := make(map[string]int)
	for _, p := range patients {
		byStatus[string(p.Status)]++
	}
	return len(patients), byStatus, nil
}

// ImplantCount counts catheter implant records in the period, optionally for
// one catheter type only.
func (s *Service) ImplantCount(ctx context.Context, site model.Ambulatorio, tipoCatetere string, period Period) (int, error) {
	schede, err := s.schedeImpianto.ListByDateRange(ctx, site, period.From, period.To, tipoCatetere)
	if err != nil {
		return 0, err
	}
	return len(schede), nil
}

// PrestazioniStats tallies the period's appointments and the prestazioni they
// carried. tipo narrows to PICC or MED agendas; empty means both.
func (s *Service) PrestazioniStats(ctx context.Context, site model.Ambulatorio, tipo string, period Period) (*PrestazioniStats, error) {
	appointments, err := s.appointments.List(ctx, &model.AppointmentFilters{
		Ambulatorio: site,
		DataFrom:    period.From,
		DataTo:      period.To,
	})
	if err != nil {
		return nil, err
	}
	out := &PrestazioniStats{PerPrestazione: make(map[string]int)}
	for _, a := range appointments {
		if tipo != "" && a.Tipo != tipo {
			continue
		}
		out.Total++
		for _, p := range a.Prestazioni {
			out.PerPrestazione[p]++
		}
	}
	return out, nil
}
