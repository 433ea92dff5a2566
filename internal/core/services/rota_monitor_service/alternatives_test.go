package rota_monitor_service

import (
	"context"
	"errors"
	"testing"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAlternatives(t *testing.T) {
	ctx := context.Background()

	t.Run("slot type without a rule yields an empty result", func(t *testing.T) {
		store := &stubRowStore{}
		svc := newTestService(store)

		alternatives, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: "Telephone Triage"}, 0)
		require.NoError(t, err)
		assert.Empty(t, alternatives)
		assert.Empty(t, store.lastFilter.SlotType, "no query should be issued")
	})

	t.Run("queries the horizon for available same-type slots", func(t *testing.T) {
		store := &stubRowStore{}
		svc := newTestService(store)

		_, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: " Blood Clinic "}, 0)
		require.NoError(t, err)

		assert.Equal(t, "Blood Clinic", store.lastFilter.SlotType)
		assert.Equal(t, domain.SlotAvailabilityAvailable, store.lastFilter.Availability)
		assert.Equal(t, "2025-11-03", store.lastFilter.StartDate)
		assert.Equal(t, "2025-11-17", store.lastFilter.EndDate, "default horizon is 14 days")
	})

	t.Run("explicit horizon overrides the default", func(t *testing.T) {
		store := &stubRowStore{}
		svc := newTestService(store)

		_, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: "Blood Clinic"}, 7)
		require.NoError(t, err)
		assert.Equal(t, "2025-11-10", store.lastFilter.EndDate)
	})

	t.Run("rows failing the rule are filtered core side", func(t *testing.T) {
		store := &stubRowStore{rows: []domain.SlotRecord{
			{SlotType: "Blood Clinic", ClinicianName: "MANSELL, Kelly (Miss)", DurationMinutes: intPtr(15)},
			{SlotType: "Blood Clinic", ClinicianName: "MANSELL, Kelly (Miss)", DurationMinutes: intPtr(5)},
			{SlotType: "Blood Clinic", ClinicianName: "SMITH, John (Dr)", DurationMinutes: intPtr(15)},
			{SlotType: "Blood Clinic", ClinicianName: "AMISON, Kelly (Miss)", DurationMinutes: intPtr(10)},
		}}
		svc := newTestService(store)

		alternatives, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: "Blood Clinic"}, 0)
		require.NoError(t, err)
		require.Len(t, alternatives, 2)
		assert.Equal(t, "MANSELL, Kelly (Miss)", alternatives[0].ClinicianName)
		assert.Equal(t, "AMISON, Kelly (Miss)", alternatives[1].ClinicianName)
	})

	t.Run("results are capped", func(t *testing.T) {
		rows := make([]domain.SlotRecord, 0, 60)
		for i := 0; i < 60; i++ {
			rows = append(rows, domain.SlotRecord{
				SlotType:        "Blood Clinic",
				ClinicianName:   "MANSELL, Kelly (Miss)",
				DurationMinutes: intPtr(10),
			})
		}
		store := &stubRowStore{rows: rows}
		svc := newTestService(store)

		alternatives, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: "Blood Clinic"}, 0)
		require.NoError(t, err)
		assert.Len(t, alternatives, 50)
	})

	t.Run("store errors surface", func(t *testing.T) {
		store := &stubRowStore{err: errors.New("boom")}
		svc := newTestService(store)

		_, err := svc.FindAlternatives(ctx, domain.SlotRecord{SlotType: "Blood Clinic"}, 0)
		assert.Error(t, err)
	})
}
