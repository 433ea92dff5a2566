package rota_monitor_service

import (
	"fmt"
	"strings"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// AggregationThresholds drives the derived warning flags. Values come from
// config so practices can tune them without a deploy.
type AggregationThresholds struct {
	MondayOnTheDay  int
	WeekdayOnTheDay int
	NurseLunchHours float64
}

func ThresholdsFromConfig(cfg *config.Config) AggregationThresholds {
	return AggregationThresholds{
		MondayOnTheDay:  cfg.Calendar.MondayOnTheDayThreshold,
		WeekdayOnTheDay: cfg.Calendar.WeekdayOnTheDayThreshold,
		NurseLunchHours: cfg.Calendar.NurseLunchHoursThreshold,
	}
}

type doctorDayAccumulator struct {
	onTheDay        int
	oneWeek         int
	twoWeek         int
	hasDuty         bool
	doctorNames     map[string]struct{}
	traineeNames    map[string]struct{}
	dutyNames       map[string]struct{}
	matchedTrainees map[string]struct{}
}

func newDoctorDayAccumulator() *doctorDayAccumulator {
	return &doctorDayAccumulator{
		doctorNames:     make(map[string]struct{}),
		traineeNames:    make(map[string]struct{}),
		dutyNames:       make(map[string]struct{}),
		matchedTrainees: make(map[string]struct{}),
	}
}

// AggregateDoctorMonth folds slot rows into per-day doctor aggregates for
// dates in [monthStart, monthEnd). Pure: no clock reads, no shared state
// between calls. Rows with unparseable dates or malformed shapes land in the
// diagnostics bucket instead of aborting the month; weekend, out-of-range and
// covid-tagged rows are filtered silently. Counts are slot volume — the same
// clinician appearing twice contributes twice.
func AggregateDoctorMonth(rows []domain.SlotRecord, monthStart, monthEnd time.Time, ids domain.IdentityClassifier, thresholds AggregationThresholds) (map[string]*domain.DayAggregate, domain.MonthDiagnostics) {
	location := monthStart.Location()
	accumulators := make(map[string]*doctorDayAccumulator)
	diagnostics := domain.MonthDiagnostics{}

	for i := range rows {
		foldDoctorRow(rows[i], monthStart, monthEnd, ids, accumulators, &diagnostics)
	}

	result := make(map[string]*domain.DayAggregate, len(accumulators))
	for key, acc := range accumulators {
		date, err := utils.ParseDateKey(key, location)
		if err != nil {
			// keys come from the normalizer, this cannot happen
			continue
		}

		threshold := thresholds.WeekdayOnTheDay
		if date.Weekday() == time.Monday {
			threshold = thresholds.MondayOnTheDay
		}

		result[key] = &domain.DayAggregate{
			DateKey:         key,
			OnTheDayCount:   acc.onTheDay,
			OneWeekCount:    acc.oneWeek,
			TwoWeekCount:    acc.twoWeek,
			HasDuty:         acc.hasDuty,
			DoctorNames:     sortedNames(acc.doctorNames),
			TraineeNames:    sortedNames(acc.traineeNames),
			DutyDoctorNames: sortedNames(acc.dutyNames),
			LowOnTheDay:     acc.onTheDay < threshold,
			TraineeRatio: len(ids.TraineeIdentifiers) > 0 &&
				len(acc.matchedTrainees) == len(ids.TraineeIdentifiers) &&
				len(acc.doctorNames) == 1,
		}
	}

	return result, diagnostics
}

// foldDoctorRow applies one row to the accumulator map. A row can contribute
// to several facets at once: a duty row also counting towards the 1-week
// bucket updates both.
func foldDoctorRow(row domain.SlotRecord, monthStart, monthEnd time.Time, ids domain.IdentityClassifier, accumulators map[string]*doctorDayAccumulator, diagnostics *domain.MonthDiagnostics) {
	defer func() {
		if r := recover(); r != nil {
			diagnostics.ExcludedRows++
			diagnostics.Errors = append(diagnostics.Errors, fmt.Sprintf("row %s: %v", row.ID, r))
		}
	}()

	location := monthStart.Location()
	key, ok := utils.NormalizeDateKey(row.Date, location)
	if !ok {
		diagnostics.ExcludedRows++
		return
	}
	date, err := utils.ParseDateKey(key, location)
	if err != nil {
		diagnostics.ExcludedRows++
		return
	}

	if date.Before(monthStart) || !date.Before(monthEnd) {
		return
	}
	if utils.IsWeekend(date) {
		return
	}
	if ids.IsExcluded(row.ClinicianName) {
		return
	}

	acc := accumulators[key]
	if acc == nil {
		acc = newDoctorDayAccumulator()
		accumulators[key] = acc
	}

	normalizedType := row.NormalizedType()
	clinician := strings.TrimSpace(row.ClinicianName)

	if isDutyType(normalizedType) {
		acc.hasDuty = true
		if clinician != "" {
			acc.dutyNames[clinician] = struct{}{}
		}
	}
	if isOneWeekType(normalizedType) {
		acc.oneWeek++
	}
	if isTwoWeekType(normalizedType) {
		acc.twoWeek++
	}
	if isOnTheDayType(normalizedType) {
		acc.onTheDay++
		if clinician != "" {
			if matched := ids.MatchedTraineeIdentifiers(clinician); len(matched) > 0 {
				acc.traineeNames[clinician] = struct{}{}
				for _, id := range matched {
					acc.matchedTrainees[id] = struct{}{}
				}
			} else if ids.IsDoctor(clinician) {
				acc.doctorNames[clinician] = struct{}{}
			}
		}
	}
}
