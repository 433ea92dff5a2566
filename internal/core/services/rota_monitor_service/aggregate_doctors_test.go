package rota_monitor_service

import (
	"testing"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novemberBounds(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	start, err := utils.ParseMonthKey("2025-11", loc)
	require.NoError(t, err)
	return start, start.AddDate(0, 1, 0)
}

func otdRows(date, clinician string, count int) []domain.SlotRecord {
	rows := make([]domain.SlotRecord, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, domain.SlotRecord{
			Date:          date,
			ClinicianName: clinician,
			SlotType:      "GP Book on the Day",
		})
	}
	return rows
}

func TestAggregateDoctorMonth(t *testing.T) {
	monthStart, monthEnd := novemberBounds(t)
	ids := testIdentityClassifier()
	thresholds := testThresholds()

	t.Run("counts slot volume per day", func(t *testing.T) {
		rows := otdRows("2025-11-03", "SMITH, John (Dr)", 3)
		rows = append(rows,
			domain.SlotRecord{Date: "2025-11-03", ClinicianName: "SMITH, John (Dr)", SlotType: "Book within 1 week"},
			domain.SlotRecord{Date: "2025-11-03", ClinicianName: "SMITH, John (Dr)", SlotType: "Book 1 to 2 weeks"},
			domain.SlotRecord{Date: "2025-11-03", ClinicianName: "JONES, Amy (Dr)", SlotType: "Emergency GP Book"},
		)

		days, diagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		require.Contains(t, days, "2025-11-03")
		day := days["2025-11-03"]

		assert.Equal(t, 3, day.OnTheDayCount)
		assert.Equal(t, 1, day.OneWeekCount)
		assert.Equal(t, 1, day.TwoWeekCount)
		assert.True(t, day.HasDuty)
		assert.Equal(t, []string{"JONES, Amy (Dr)"}, day.DutyDoctorNames)
		assert.Equal(t, []string{"SMITH, John (Dr)"}, day.DoctorNames)
		assert.Zero(t, diagnostics.ExcludedRows)
	})

	t.Run("monday threshold is higher", func(t *testing.T) {
		// 2025-11-03 is a Monday, 2025-11-04 a Tuesday
		days, _ := AggregateDoctorMonth(otdRows("2025-11-03", "SMITH, John (Dr)", 24), monthStart, monthEnd, ids, thresholds)
		assert.True(t, days["2025-11-03"].LowOnTheDay)

		days, _ = AggregateDoctorMonth(otdRows("2025-11-03", "SMITH, John (Dr)", 25), monthStart, monthEnd, ids, thresholds)
		assert.False(t, days["2025-11-03"].LowOnTheDay)

		days, _ = AggregateDoctorMonth(otdRows("2025-11-04", "SMITH, John (Dr)", 19), monthStart, monthEnd, ids, thresholds)
		assert.True(t, days["2025-11-04"].LowOnTheDay)

		days, _ = AggregateDoctorMonth(otdRows("2025-11-04", "SMITH, John (Dr)", 20), monthStart, monthEnd, ids, thresholds)
		assert.False(t, days["2025-11-04"].LowOnTheDay)
	})

	t.Run("weekend rows are dropped silently", func(t *testing.T) {
		// 2025-11-01 Saturday, 2025-11-02 Sunday
		rows := append(otdRows("2025-11-01", "SMITH, John (Dr)", 2), otdRows("2025-11-02", "SMITH, John (Dr)", 2)...)
		days, diagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.Empty(t, days)
		assert.Zero(t, diagnostics.ExcludedRows)
	})

	t.Run("out of range rows are dropped silently", func(t *testing.T) {
		rows := append(otdRows("2025-10-31", "SMITH, John (Dr)", 1), otdRows("2025-12-01", "SMITH, John (Dr)", 1)...)
		days, diagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.Empty(t, days)
		assert.Zero(t, diagnostics.ExcludedRows)
	})

	t.Run("covid tagged rows are excluded from counting", func(t *testing.T) {
		rows := append(otdRows("2025-11-03", "COVID Clinic", 5), otdRows("2025-11-03", "SMITH, John (Dr)", 2)...)
		days, _ := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.Equal(t, 2, days["2025-11-03"].OnTheDayCount)
	})

	t.Run("unparseable dates land in diagnostics", func(t *testing.T) {
		rows := append(otdRows("2025-11-03", "SMITH, John (Dr)", 1),
			domain.SlotRecord{Date: "not a date", ClinicianName: "SMITH, John (Dr)", SlotType: "GP Book on the Day"},
		)
		days, diagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.Equal(t, 1, days["2025-11-03"].OnTheDayCount)
		assert.Equal(t, 1, diagnostics.ExcludedRows)
	})

	t.Run("report header date shape aggregates the same day", func(t *testing.T) {
		rows := append(otdRows("03-Nov-2025", "SMITH, John (Dr)", 1), otdRows("2025-11-03", "SMITH, John (Dr)", 1)...)
		days, _ := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		require.Contains(t, days, "2025-11-03")
		assert.Equal(t, 2, days["2025-11-03"].OnTheDayCount)
	})

	t.Run("trainee ratio needs every trainee and exactly one doctor", func(t *testing.T) {
		base := []domain.SlotRecord{
			{Date: "2025-11-03", ClinicianName: "OKAFOR, Chidi (Dr)", SlotType: "GP Book on the Day"},
			{Date: "2025-11-03", ClinicianName: "BERESFORD, Tom (Dr)", SlotType: "GP Book on the Day"},
		}

		// Both trainees plus one non-trainee doctor triggers the flag
		rows := append(base, otdRows("2025-11-03", "SMITH, John (Dr)", 1)...)
		days, _ := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.True(t, days["2025-11-03"].TraineeRatio)
		assert.Equal(t, []string{"BERESFORD, Tom (Dr)", "OKAFOR, Chidi (Dr)"}, days["2025-11-03"].TraineeNames)

		// A second doctor clears it
		rows = append(rows, otdRows("2025-11-03", "JONES, Amy (Dr)", 1)...)
		days, _ = AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.False(t, days["2025-11-03"].TraineeRatio)

		// One trainee missing clears it too
		rows = append(otdRows("2025-11-03", "SMITH, John (Dr)", 1),
			domain.SlotRecord{Date: "2025-11-03", ClinicianName: "OKAFOR, Chidi (Dr)", SlotType: "GP Book on the Day"},
		)
		days, _ = AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		assert.False(t, days["2025-11-03"].TraineeRatio)
	})

	t.Run("aggregation is idempotent over the same input", func(t *testing.T) {
		rows := append(otdRows("2025-11-03", "SMITH, John (Dr)", 4),
			domain.SlotRecord{Date: "2025-11-04", ClinicianName: "JONES, Amy (Dr)", SlotType: "Emergency GP Book"},
			domain.SlotRecord{Date: "bad", ClinicianName: "X", SlotType: "GP Book on the Day"},
		)

		first, firstDiagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)
		second, secondDiagnostics := AggregateDoctorMonth(rows, monthStart, monthEnd, ids, thresholds)

		assert.Equal(t, first, second)
		assert.Equal(t, firstDiagnostics, secondDiagnostics)
	})
}
