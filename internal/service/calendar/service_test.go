package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

type memClosedSlots struct {
	items []*model.ClosedSlot
}

func (m *memClosedSlots) Create(_ context.Context, slot *model.ClosedSlot) error {
	cp := *slot
	m.items = append(m.items, &cp)
	return nil
}

func (m *memClosedSlots) Get(_ context.Context, id string) (*model.ClosedSlot, error) {
	for _, s := range m.items {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memClosedSlots) Exists(_ context.Context, site model.Ambulatorio, data, ora, tipo string) (bool, error) {
	for _, s := range m.items {
		if s.Ambulatorio == site && s.Data == data && s.Ora == ora && s.Tipo == tipo {
			return true, nil
		}
	}
	return false, nil
}

func (m *memClosedSlots) List(_ context.Context, filters *model.ClosedSlotFilters) ([]*model.ClosedSlot, error) {
	var out []*model.ClosedSlot
	for _, s := range m.items {
		if s.Ambulatorio != filters.Ambulatorio {
			continue
		}
		if filters.Data != "" && s.Data != filters.Data {
			continue
		}
		if filters.Data == "" && filters.DataFrom != "" && filters.DataTo != "" {
			if s.Data < filters.DataFrom || s.Data > filters.DataTo {
				continue
			}
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memClosedSlots) Delete(_ context.Context, id string) error {
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memClosedSlots) DeleteByDay(_ context.Context, site model.Ambulatorio, data string) (int64, error) {
	var count int64
	kept := m.items[:0]
	for _, s := range m.items {
		if s.Ambulatorio == site && s.Data == data {
			count++
			continue
		}
		kept = append(kept, s)
	}
	m.items = kept
	return count, nil
}

func TestHolidays(t *testing.T) {
	svc := NewService(&memClosedSlots{})

	t.Run("known easter year", func(t *testing.T) {
		got := svc.Holidays(2026)
		assert.Len(t, got, 13)
		assert.Contains(t, got, "2026-01-01")
		assert.Contains(t, got, "2026-07-15")
		assert.Contains(t, got, "2026-12-26")
		assert.Contains(t, got, "2026-04-05")
		// pasquetta
		assert.Contains(t, got, "2026-04-06")
	})

	t.Run("unknown easter year", func(t *testing.T) {
		got := svc.Holidays(2031)
		assert.Len(t, got, 11)
		assert.NotContains(t, got, "2031-04-13")
	})
}

func TestSlots(t *testing.T) {
	svc := NewService(&memClosedSlots{})
	slots := svc.Slots()

	assert.Equal(t, "08:30", slots.Mattina[0])
	assert.Equal(t, "13:30", slots.Mattina[len(slots.Mattina)-1])
	assert.Equal(t, "15:00", slots.Pomeriggio[0])
	assert.Equal(t, "17:30", slots.Pomeriggio[len(slots.Pomeriggio)-1])
	assert.Len(t, slots.Tutti, len(slots.Mattina)+len(slots.Pomeriggio))
}

func TestCloseSlots(t *testing.T) {
	t.Run("one record per time", func(t *testing.T) {
		repo := &memClosedSlots{}
		svc := NewService(repo)

		created, err := svc.CloseSlots(context.Background(), "infermiere1", &model.CreateClosedSlotsRequest{
			Data:        "2026-03-15",
			Ambulatorio: model.AmbulatorioPTACentro,
			Ora:         []string{"08:30", "09:00"},
			Tipo:        "PICC",
			Motivo:      "formazione",
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "08:30", created[0].Ora)
		assert.Equal(t, "formazione", created[0].Motivo)
		assert.Equal(t, "infermiere1", created[0].CreatedBy)
		assert.Len(t, repo.items, 2)
	})

	t.Run("no times closes the whole day", func(t *testing.T) {
		repo := &memClosedSlots{}
		svc := NewService(repo)

		created, err := svc.CloseSlots(context.Background(), "infermiere1", &model.CreateClosedSlotsRequest{
			Data:        "2026-03-15",
			Ambulatorio: model.AmbulatorioPTACentro,
		})
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Empty(t, created[0].Ora)
		assert.Empty(t, created[0].Tipo)
		assert.Equal(t, "Chiuso", created[0].Motivo)
	})

	t.Run("already closed slots are skipped", func(t *testing.T) {
		repo := &memClosedSlots{}
		svc := NewService(repo)
		req := &model.CreateClosedSlotsRequest{
			Data:        "2026-03-15",
			Ambulatorio: model.AmbulatorioPTACentro,
			Ora:         []string{"08:30"},
		}

		first, err := svc.CloseSlots(context.Background(), "infermiere1", req)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := svc.CloseSlots(context.Background(), "infermiere1", req)
		require.NoError(t, err)
		assert.Empty(t, second)
		assert.Len(t, repo.items, 1)
	})
}

func TestClosedSlotsDateRange(t *testing.T) {
	repo := &memClosedSlots{}
	svc := NewService(repo)
	ctx := context.Background()

	for _, data := range []string{"2026-03-10", "2026-03-15", "2026-03-20"} {
		_, err := svc.CloseSlots(ctx, "infermiere1", &model.CreateClosedSlotsRequest{
			Data: data, Ambulatorio: model.AmbulatorioPTACentro,
		})
		require.NoError(t, err)
	}

	slots, err := svc.ClosedSlots(ctx, &model.ClosedSlotFilters{
		Ambulatorio: model.AmbulatorioPTACentro,
		DataFrom:    "2026-03-10",
		DataTo:      "2026-03-15",
	})
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestReopen(t *testing.T) {
	repo := &memClosedSlots{}
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CloseSlots(ctx, "infermiere1", &model.CreateClosedSlotsRequest{
		Data: "2026-03-15", Ambulatorio: model.AmbulatorioPTACentro, Ora: []string{"08:30"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reopen(ctx, created[0].ID))
	assert.Empty(t, repo.items)
	require.Error(t, svc.Reopen(ctx, created[0].ID))
}

func TestReopenDay(t *testing.T) {
	repo := &memClosedSlots{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CloseSlots(ctx, "infermiere1", &model.CreateClosedSlotsRequest{
		Data: "2026-03-15", Ambulatorio: model.AmbulatorioPTACentro, Ora: []string{"08:30", "09:00"},
	})
	require.NoError(t, err)
	_, err = svc.CloseSlots(ctx, "infermiere1", &model.CreateClosedSlotsRequest{
		Data: "2026-03-16", Ambulatorio: model.AmbulatorioPTACentro,
	})
	require.NoError(t, err)

	count, err := svc.ReopenDay(ctx, model.AmbulatorioPTACentro, "2026-03-15")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, repo.items, 1)
}
