package rota_monitor_service

import (
	"testing"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDoctorDay(t *testing.T) {
	today := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	t.Run("past days never warn", func(t *testing.T) {
		warnings := ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, TraineeRatio: true}, past, today)
		assert.Equal(t, domain.DoctorDayWarnings{}, warnings)
	})

	t.Run("today still warns", func(t *testing.T) {
		warnings := ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, HasDuty: true}, today, today)
		assert.True(t, warnings.LowOnTheDay)
		assert.Equal(t, domain.DoctorWarningLowOnTheDay, warnings.Class)
	})

	t.Run("class precedence trainee ratio over no duty over low otd", func(t *testing.T) {
		warnings := ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, TraineeRatio: true}, future, today)
		assert.Equal(t, domain.DoctorWarningTraineeRatio, warnings.Class)

		warnings = ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, HasDuty: false}, future, today)
		assert.Equal(t, domain.DoctorWarningNoDuty, warnings.Class)

		warnings = ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, HasDuty: true}, future, today)
		assert.Equal(t, domain.DoctorWarningLowOnTheDay, warnings.Class)
	})

	t.Run("booleans stay independent of the class", func(t *testing.T) {
		warnings := ClassifyDoctorDay(&domain.DayAggregate{LowOnTheDay: true, TraineeRatio: true, HasDuty: false}, future, today)
		assert.True(t, warnings.LowOnTheDay)
		assert.True(t, warnings.NoDuty)
		assert.True(t, warnings.TraineeRatio)
	})

	t.Run("clean day has an empty class", func(t *testing.T) {
		warnings := ClassifyDoctorDay(&domain.DayAggregate{HasDuty: true}, future, today)
		assert.Equal(t, domain.DoctorWarningNone, warnings.Class)
		assert.False(t, warnings.LowOnTheDay)
	})

	t.Run("nil aggregate classifies as nothing", func(t *testing.T) {
		assert.Equal(t, domain.DoctorDayWarnings{}, ClassifyDoctorDay(nil, future, today))
	})
}

func TestClassifyNurseDay(t *testing.T) {
	today := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	t.Run("past day suppression matches the doctor calendar", func(t *testing.T) {
		warnings := ClassifyNurseDay(&domain.NurseDayAggregate{
			HasSampleTesting:  false,
			MissingLunchNames: []string{"OWENS, Diane (Mrs)"},
		}, past, today)
		assert.False(t, warnings.LacksSampleTesting)
		assert.Empty(t, warnings.MissingLunchNames)
	})

	t.Run("both warnings can be active at once", func(t *testing.T) {
		warnings := ClassifyNurseDay(&domain.NurseDayAggregate{
			HasSampleTesting:  false,
			MissingLunchNames: []string{"OWENS, Diane (Mrs)"},
		}, future, today)
		assert.True(t, warnings.LacksSampleTesting)
		assert.Equal(t, []string{"OWENS, Diane (Mrs)"}, warnings.MissingLunchNames)
	})

	t.Run("missing lunch list is never nil", func(t *testing.T) {
		warnings := ClassifyNurseDay(&domain.NurseDayAggregate{HasSampleTesting: true}, future, today)
		assert.NotNil(t, warnings.MissingLunchNames)
		assert.Empty(t, warnings.MissingLunchNames)
	})
}
