package rota_monitor_service

import (
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// ClassifyDoctorDay turns a day's aggregate into its warning state. Past days
// (date < today, day granularity) never warn. Precedence for the calendar
// cell class: trainee ratio, then no duty, then low on-the-day; the booleans
// stay independent for the detail view.
//
// today is an explicit parameter so classification is deterministic and
// replayable, never an implicit clock read.
func ClassifyDoctorDay(aggregate *domain.DayAggregate, date, today time.Time) domain.DoctorDayWarnings {
	if aggregate == nil {
		return domain.DoctorDayWarnings{}
	}
	if isPastDay(date, today) {
		return domain.DoctorDayWarnings{}
	}

	warnings := domain.DoctorDayWarnings{
		LowOnTheDay:  aggregate.LowOnTheDay,
		NoDuty:       !aggregate.HasDuty,
		TraineeRatio: aggregate.TraineeRatio,
	}

	switch {
	case warnings.TraineeRatio:
		warnings.Class = domain.DoctorWarningTraineeRatio
	case warnings.NoDuty:
		warnings.Class = domain.DoctorWarningNoDuty
	case warnings.LowOnTheDay:
		warnings.Class = domain.DoctorWarningLowOnTheDay
	}

	return warnings
}

// ClassifyNurseDay turns a day's nurse aggregate into its warning state.
// Past-day suppression applies here too, matching the doctor calendar; both
// warnings can be active at once and both must be listed in a detail view.
func ClassifyNurseDay(aggregate *domain.NurseDayAggregate, date, today time.Time) domain.NurseDayWarnings {
	if aggregate == nil {
		return domain.NurseDayWarnings{MissingLunchNames: []string{}}
	}
	if isPastDay(date, today) {
		return domain.NurseDayWarnings{MissingLunchNames: []string{}}
	}

	missing := aggregate.MissingLunchNames
	if missing == nil {
		missing = []string{}
	}

	return domain.NurseDayWarnings{
		LacksSampleTesting: !aggregate.HasSampleTesting,
		MissingLunchNames:  missing,
	}
}

func isPastDay(date, today time.Time) bool {
	return utils.StartCurrentDay(date).Before(utils.StartCurrentDay(today))
}
