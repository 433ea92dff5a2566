package rota_monitor_service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

type nurseDayAccumulator struct {
	rowCount         int
	nurseNames       map[string]struct{}
	hasSampleTesting bool
	hours            map[string]float64
	hasLunch         map[string]struct{}
}

func newNurseDayAccumulator() *nurseDayAccumulator {
	return &nurseDayAccumulator{
		nurseNames: make(map[string]struct{}),
		hours:      make(map[string]float64),
		hasLunch:   make(map[string]struct{}),
	}
}

// AggregateNurseMonth folds slot rows into per-day nurse aggregates for dates
// in [monthStart, monthEnd). Same filtering contract as the doctor fold.
// Every surviving row counts towards the day total and is tested against the
// nurse surname list regardless of slot type; worked hours come from time
// ranges embedded in the availability cell.
func AggregateNurseMonth(rows []domain.SlotRecord, monthStart, monthEnd time.Time, ids domain.IdentityClassifier, thresholds AggregationThresholds) (map[string]*domain.NurseDayAggregate, domain.MonthDiagnostics) {
	accumulators := make(map[string]*nurseDayAccumulator)
	diagnostics := domain.MonthDiagnostics{}

	for i := range rows {
		foldNurseRow(rows[i], monthStart, monthEnd, ids, accumulators, &diagnostics)
	}

	result := make(map[string]*domain.NurseDayAggregate, len(accumulators))
	for key, acc := range accumulators {
		missingLunch := make([]string, 0)
		for name, hours := range acc.hours {
			if hours <= thresholds.NurseLunchHours {
				continue
			}
			if _, ok := acc.hasLunch[name]; !ok {
				missingLunch = append(missingLunch, name)
			}
		}
		sort.Strings(missingLunch)

		perPersonHours := make(map[string]float64, len(acc.hours))
		for name, hours := range acc.hours {
			perPersonHours[name] = hours
		}

		result[key] = &domain.NurseDayAggregate{
			DateKey:           key,
			RowCount:          acc.rowCount,
			NurseNames:        sortedNames(acc.nurseNames),
			HasSampleTesting:  acc.hasSampleTesting,
			PerPersonHours:    perPersonHours,
			MissingLunchNames: missingLunch,
		}
	}

	return result, diagnostics
}

func foldNurseRow(row domain.SlotRecord, monthStart, monthEnd time.Time, ids domain.IdentityClassifier, accumulators map[string]*nurseDayAccumulator, diagnostics *domain.MonthDiagnostics) {
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
		acc = newNurseDayAccumulator()
		accumulators[key] = acc
	}

	acc.rowCount++

	clinician := strings.TrimSpace(row.ClinicianName)
	if clinician != "" && ids.IsNurse(clinician) {
		acc.nurseNames[clinician] = struct{}{}
	}

	normalizedType := row.NormalizedType()
	if isSampleTestingType(normalizedType) {
		acc.hasSampleTesting = true
	}
	if clinician != "" && isLunchType(normalizedType) {
		acc.hasLunch[clinician] = struct{}{}
	}

	if clinician != "" {
		if hours := parseAvailabilityHours(row.Availability); hours > 0 {
			acc.hours[clinician] += hours
		}
	}
}
