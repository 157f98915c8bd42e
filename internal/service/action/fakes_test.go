package action

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// In-memory repositories backing the service tests. Slices keep insertion
// order so lookups behave deterministically.

type memPatients struct {
	items []*model.Patient
}

func (m *memPatients) Create(_ context.Context, p *model.Patient) error {
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *memPatients) Get(_ context.Context, id string) (*model.Patient, error) {
	for _, p := range m.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPatients) Update(_ context.Context, p *model.Patient) error {
	for i, existing := range m.items {
		if existing.ID == p.ID {
			cp := *p
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPatients) SetStatus(_ context.Context, id string, status model.PatientStatus, dataDimissione *string) error {
	for _, p := range m.items {
		if p.ID == id {
			p.Status = status
			if dataDimissione != nil {
				p.DataDimissione = *dataDimissione
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPatients) Delete(_ context.Context, id string) error {
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPatients) List(_ context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range m.items {
		if filters.Ambulatorio != "" && p.Ambulatorio != filters.Ambulatorio {
			continue
		}
		if filters.Tipo != "" && p.Tipo != filters.Tipo {
			continue
		}
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		if filters.Search != "" {
			q := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(p.Nome), q) && !strings.Contains(strings.ToLower(p.Cognome), q) {
				continue
			}
		}
		cp := *p
		out = append(out, &cp)
		if filters.Limit > 0 && int64(len(out)) >= filters.Limit {
			break
		}
	}
	return out, nil
}

func (m *memPatients) FindOneBySurname(_ context.Context, site model.Ambulatorio, surname string) (*model.Patient, error) {
	for _, p := range m.items {
		if p.Ambulatorio == site && strings.EqualFold(p.Cognome, surname) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPatients) FindOneBySurnameAndNamePrefix(_ context.Context, site model.Ambulatorio, surname, namePrefix string) (*model.Patient, error) {
	for _, p := range m.items {
		if p.Ambulatorio == site &&
			strings.EqualFold(p.Cognome, surname) &&
			strings.HasPrefix(strings.ToLower(p.Nome), strings.ToLower(namePrefix)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPatients) FindOneBySurnamePrefix(_ context.Context, site model.Ambulatorio, prefix string) (*model.Patient, error) {
	for _, p := range m.items {
		if p.Ambulatorio == site && strings.HasPrefix(strings.ToLower(p.Cognome), strings.ToLower(prefix)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPatients) FindOneByFullNameTokens(_ context.Context, site model.Ambulatorio, tokens []string) (*model.Patient, error) {
	for _, p := range m.items {
		if p.Ambulatorio != site {
			continue
		}
		full := strings.ToLower(p.Cognome + " " + p.Nome)
		matched := true
		for _, tok := range tokens {
			if !strings.Contains(full, tok) {
				matched = false
				break
			}
		}
		if matched {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memAppointments struct {
	items []*model.Appointment
}

func (m *memAppointments) Create(_ context.Context, a *model.Appointment) error {
	cp := *a
	m.items = append(m.items, &cp)
	return nil
}

func (m *memAppointments) Get(_ context.Context, id string) (*model.Appointment, error) {
	for _, a := range m.items {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAppointments) Update(_ context.Context, a *model.Appointment) error {
	for i, existing := range m.items {
		if existing.ID == a.ID {
			cp := *a
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memAppointments) Delete(_ context.Context, id string) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memAppointments) matches(a *model.Appointment, filters *model.AppointmentFilters) bool {
	if filters.Ambulatorio != "" && a.Ambulatorio != filters.Ambulatorio {
		return false
	}
	if filters.PatientID != "" && a.PatientID != filters.PatientID {
		return false
	}
	if filters.Data != "" && a.Data != filters.Data {
		return false
	}
	if filters.DataFrom != "" && a.Data < filters.DataFrom {
		return false
	}
	if filters.DataTo != "" && a.Data >= filters.DataTo {
		return false
	}
	if filters.Ora != "" && a.Ora != filters.Ora {
		return false
	}
	if filters.Stato != "" && a.Stato != filters.Stato {
		return false
	}
	return true
}

func (m *memAppointments) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.items {
		if m.matches(a, filters) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Data != out[j].Data {
			return out[i].Data < out[j].Data
		}
		return out[i].Ora < out[j].Ora
	})
	if filters.Limit > 0 && int64(len(out)) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *memAppointments) FindOne(ctx context.Context, filters *model.AppointmentFilters) (*model.Appointment, error) {
	out, _ := m.List(ctx, filters)
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return out[0], nil
}

func (m *memAppointments) CountSlot(_ context.Context, key model.SlotKey) (int64, error) {
	var n int64
	for _, a := range m.items {
		if a.Ambulatorio == key.Ambulatorio && a.Data == key.Data && a.Ora == key.Ora && a.Tipo == key.Tipo {
			n++
		}
	}
	return n, nil
}

func (m *memAppointments) ListByPatient(_ context.Context, patientID string) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.items {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAppointments) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []*model.Appointment
	for _, a := range m.items {
		if a.PatientID != patientID {
			kept = append(kept, a)
		}
	}
	m.items = kept
	return nil
}

type memSchedeImpianto struct {
	items []*model.SchedaImpiantoPICC
}

func (m *memSchedeImpianto) Create(_ context.Context, s *model.SchedaImpiantoPICC) error {
	cp := *s
	m.items = append(m.items, &cp)
	return nil
}

func (m *memSchedeImpianto) Get(_ context.Context, id string) (*model.SchedaImpiantoPICC, error) {
	for _, s := range m.items {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSchedeImpianto) Update(_ context.Context, s *model.SchedaImpiantoPICC) error {
	for i, existing := range m.items {
		if existing.ID == s.ID {
			cp := *s
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeImpianto) Delete(_ context.Context, id string) error {
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeImpianto) ListByPatient(_ context.Context, patientID string) ([]*model.SchedaImpiantoPICC, error) {
	var out []*model.SchedaImpiantoPICC
	for _, s := range m.items {
		if s.PatientID == patientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSchedeImpianto) ListByDateRange(_ context.Context, site model.Ambulatorio, from, to, tipoCatetere string) ([]*model.SchedaImpiantoPICC, error) {
	var out []*model.SchedaImpiantoPICC
	for _, s := range m.items {
		if s.Ambulatorio != site || s.DataImpianto < from || s.DataImpianto >= to {
			continue
		}
		if tipoCatetere != "" && s.TipoCatetere != tipoCatetere {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSchedeImpianto) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []*model.SchedaImpiantoPICC
	for _, s := range m.items {
		if s.PatientID != patientID {
			kept = append(kept, s)
		}
	}
	m.items = kept
	return nil
}

type memSchedeMed struct {
	items []*model.SchedaMedicazioneMED
}

func (m *memSchedeMed) Create(_ context.Context, s *model.SchedaMedicazioneMED) error {
	cp := *s
	m.items = append(m.items, &cp)
	return nil
}

func (m *memSchedeMed) Get(_ context.Context, id string) (*model.SchedaMedicazioneMED, error) {
	for _, s := range m.items {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSchedeMed) Update(_ context.Context, s *model.SchedaMedicazioneMED) error {
	for i, existing := range m.items {
		if existing.ID == s.ID {
			cp := *s
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeMed) Delete(_ context.Context, id string) error {
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeMed) ListByPatient(_ context.Context, patientID string) ([]*model.SchedaMedicazioneMED, error) {
	var out []*model.SchedaMedicazioneMED
	for _, s := range m.items {
		if s.PatientID == patientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSchedeMed) LatestByPatient(_ context.Context, site model.Ambulatorio, patientID string) (*model.SchedaMedicazioneMED, error) {
	var latest *model.SchedaMedicazioneMED
	for _, s := range m.items {
		if s.PatientID != patientID || s.Ambulatorio != site {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memSchedeMed) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []*model.SchedaMedicazioneMED
	for _, s := range m.items {
		if s.PatientID != patientID {
			kept = append(kept, s)
		}
	}
	m.items = kept
	return nil
}

type memSchedeGestione struct {
	items []*model.SchedaGestionePICC
}

func (m *memSchedeGestione) Create(_ context.Context, s *model.SchedaGestionePICC) error {
	cp := *s
	if s.Giorni != nil {
		cp.Giorni = make(map[string]map[string]interface{}, len(s.Giorni))
		for k, v := range s.Giorni {
			cp.Giorni[k] = v
		}
	}
	m.items = append(m.items, &cp)
	return nil
}

func (m *memSchedeGestione) Get(_ context.Context, id string) (*model.SchedaGestionePICC, error) {
	for _, s := range m.items {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSchedeGestione) Update(_ context.Context, s *model.SchedaGestionePICC) error {
	for i, existing := range m.items {
		if existing.ID == s.ID {
			cp := *s
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeGestione) Delete(_ context.Context, id string) error {
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeGestione) ListByPatient(_ context.Context, patientID string) ([]*model.SchedaGestionePICC, error) {
	var out []*model.SchedaGestionePICC
	for _, s := range m.items {
		if s.PatientID == patientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSchedeGestione) LatestByPatient(_ context.Context, site model.Ambulatorio, patientID string) (*model.SchedaGestionePICC, error) {
	var latest *model.SchedaGestionePICC
	for _, s := range m.items {
		if s.PatientID != patientID || s.Ambulatorio != site {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memSchedeGestione) SetGiorno(_ context.Context, id, dayKey string, entry map[string]interface{}) error {
	for _, s := range m.items {
		if s.ID == id {
			if s.Giorni == nil {
				s.Giorni = make(map[string]map[string]interface{})
			}
			s.Giorni[dayKey] = entry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeGestione) UnsetGiorno(_ context.Context, id, dayKey string) error {
	for _, s := range m.items {
		if s.ID == id {
			delete(s.Giorni, dayKey)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSchedeGestione) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []*model.SchedaGestionePICC
	for _, s := range m.items {
		if s.PatientID != patientID {
			kept = append(kept, s)
		}
	}
	m.items = kept
	return nil
}

type memPrescrizioni struct {
	items []*model.Prescrizione
}

func (m *memPrescrizioni) Create(_ context.Context, p *model.Prescrizione) error {
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *memPrescrizioni) Update(_ context.Context, p *model.Prescrizione) error {
	for i, existing := range m.items {
		if existing.ID == p.ID {
			cp := *p
			m.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPrescrizioni) Delete(_ context.Context, id string) error {
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPrescrizioni) ListByPatient(_ context.Context, patientID string) ([]*model.Prescrizione, error) {
	var out []*model.Prescrizione
	for _, p := range m.items {
		if p.PatientID == patientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPrescrizioni) FindByPatientAndMese(_ context.Context, patientID, mese string) (*model.Prescrizione, error) {
	for _, p := range m.items {
		if p.PatientID == patientID && p.Mese == mese {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPrescrizioni) DeleteByPatient(_ context.Context, patientID string) error {
	var kept []*model.Prescrizione
	for _, p := range m.items {
		if p.PatientID != patientID {
			kept = append(kept, p)
		}
	}
	m.items = kept
	return nil
}

type memUndo struct {
	entries []*model.UndoEntry
	seq     int
}

func (m *memUndo) Insert(_ context.Context, entry *model.UndoEntry) error {
	cp := *entry
	m.seq++
	// Stable tie-break for entries recorded within the same instant.
	cp.Timestamp = cp.Timestamp.Add(time.Duration(m.seq) * time.Nanosecond)
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memUndo) Get(_ context.Context, id, userID string, site model.Ambulatorio) (*model.UndoEntry, error) {
	for _, e := range m.entries {
		if e.ID == id && e.UserID == userID && e.Ambulatorio == site {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUndo) scoped(userID string, site model.Ambulatorio) []*model.UndoEntry {
	var out []*model.UndoEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.Ambulatorio == site {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (m *memUndo) Latest(_ context.Context, userID string, site model.Ambulatorio) (*model.UndoEntry, error) {
	scoped := m.scoped(userID, site)
	if len(scoped) == 0 {
		return nil, repository.ErrNotFound
	}
	cp := *scoped[0]
	return &cp, nil
}

func (m *memUndo) List(_ context.Context, userID string, site model.Ambulatorio, limit int64) ([]*model.UndoEntry, error) {
	scoped := m.scoped(userID, site)
	if limit > 0 && int64(len(scoped)) > limit {
		scoped = scoped[:limit]
	}
	out := make([]*model.UndoEntry, len(scoped))
	for i, e := range scoped {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

func (m *memUndo) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memUndo) DeleteMany(_ context.Context, ids []string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []*model.UndoEntry
	for _, e := range m.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}
