package rota_monitor_service

import (
	"context"
	"fmt"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// RotaMonitorService wires the pure aggregation core to the row store and the
// month cache. Aggregation itself is synchronous and idempotent: callers get
// "given these rows, this aggregate" with no shared mutable state between
// calls.
type RotaMonitorService struct {
	rowStorePort out.RowStorePort
	cachePort    out.CachePort
	logger       out.LoggerPort
	cfg          *config.Config
	rules        *RuleTable
	ids          domain.IdentityClassifier
	thresholds   AggregationThresholds
	location     *time.Location

	// injected clock so "today" is controllable in tests
	now func() time.Time
}

func NewRotaMonitorService(
	rowStorePort out.RowStorePort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *RotaMonitorService {
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		location = time.UTC
	}

	return &RotaMonitorService{
		rowStorePort: rowStorePort,
		cachePort:    cachePort,
		logger:       logger.WithModule("RotaMonitorService"),
		cfg:          cfg,
		rules:        NewRuleTable(cfg),
		ids: domain.IdentityClassifier{
			TraineeIdentifiers: cfg.Identity.TraineeIdentifiers,
			NurseSurnames:      cfg.Identity.NurseSurnames,
		},
		thresholds: ThresholdsFromConfig(cfg),
		location:   location,
		now:        time.Now,
	}
}

// Rules exposes the rule table for the compliance endpoints.
func (s *RotaMonitorService) Rules() *RuleTable {
	return s.rules
}

func (s *RotaMonitorService) today() time.Time {
	return utils.StartCurrentDay(s.now().In(s.location))
}

func (s *RotaMonitorService) cacheEnabled() bool {
	return s.cachePort != nil && s.cfg.Cache.Enabled
}

// DoctorCalendar aggregates one month of slot rows into the doctor calendar.
// Aggregates are cached per month; warnings depend on today and are
// classified fresh on every call.
func (s *RotaMonitorService) DoctorCalendar(ctx context.Context, monthKey string, withDebug bool) (*domain.DoctorCalendar, error) {
	s.logger.Info("calendar.doctors.started", out.LogFields{
		"month": monthKey,
	})

	monthStart, err := utils.ParseMonthKey(monthKey, s.location)
	if err != nil {
		return nil, fmt.Errorf("calendar.doctors.invalid_month: %w", err)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	var debug []domain.TimedEvent

	days, diagnostics, cached := s.cachedDoctorMonth(ctx, monthKey)
	if !cached {
		fetchEvent := domain.TimedEvent{Event: "calendar.doctors.rows.fetch"}
		fetchEvent.Start()
		rows, err := s.rowStorePort.GetSlotRows(ctx, monthStart, monthEnd)
		if err != nil {
			s.logger.Error("calendar.doctors.rows.fetch_failed", out.LogFields{
				"month": monthKey,
				"error": err.Error(),
			})
			return nil, fmt.Errorf("calendar.doctors.rows.fetch_failed: %w", err)
		}
		fetchEvent.Elapse()
		fetchEvent.AddOption("rows", fmt.Sprintf("%d", len(rows)))
		debug = append(debug, fetchEvent)

		aggregateEvent := domain.TimedEvent{Event: "calendar.doctors.aggregate"}
		aggregateEvent.Start()
		days, diagnostics = AggregateDoctorMonth(rows, monthStart, monthEnd, s.ids, s.thresholds)
		aggregateEvent.Elapse()
		debug = append(debug, aggregateEvent)

		if s.cacheEnabled() {
			s.cachePort.StoreDoctorMonth(ctx, monthKey, days, diagnostics)
		}
	}

	if diagnostics.ExcludedRows > 0 {
		s.logger.Warn("calendar.doctors.rows.excluded", out.LogFields{
			"month":    monthKey,
			"excluded": diagnostics.ExcludedRows,
		})
	}

	today := s.today()
	calendar := &domain.DoctorCalendar{
		Month:       monthKey,
		Days:        make(map[string]domain.DoctorCalendarDay, len(days)),
		Diagnostics: diagnostics,
	}
	for key, aggregate := range days {
		date, err := utils.ParseDateKey(key, s.location)
		if err != nil {
			continue
		}
		calendar.Days[key] = domain.DoctorCalendarDay{
			Aggregate: *aggregate,
			Warnings:  ClassifyDoctorDay(aggregate, date, today),
		}
	}

	if withDebug {
		calendar.Debug = debug
	}

	return calendar, nil
}

// NurseCalendar aggregates one month of slot rows into the nurse calendar.
func (s *RotaMonitorService) NurseCalendar(ctx context.Context, monthKey string, withDebug bool) (*domain.NurseCalendar, error) {
	s.logger.Info("calendar.nurses.started", out.LogFields{
		"month": monthKey,
	})

	monthStart, err := utils.ParseMonthKey(monthKey, s.location)
	if err != nil {
		return nil, fmt.Errorf("calendar.nurses.invalid_month: %w", err)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	var debug []domain.TimedEvent

	days, diagnostics, cached := s.cachedNurseMonth(ctx, monthKey)
	if !cached {
		fetchEvent := domain.TimedEvent{Event: "calendar.nurses.rows.fetch"}
		fetchEvent.Start()
		rows, err := s.rowStorePort.GetSlotRows(ctx, monthStart, monthEnd)
		if err != nil {
			s.logger.Error("calendar.nurses.rows.fetch_failed", out.LogFields{
				"month": monthKey,
				"error": err.Error(),
			})
			return nil, fmt.Errorf("calendar.nurses.rows.fetch_failed: %w", err)
		}
		fetchEvent.Elapse()
		fetchEvent.AddOption("rows", fmt.Sprintf("%d", len(rows)))
		debug = append(debug, fetchEvent)

		aggregateEvent := domain.TimedEvent{Event: "calendar.nurses.aggregate"}
		aggregateEvent.Start()
		days, diagnostics = AggregateNurseMonth(rows, monthStart, monthEnd, s.ids, s.thresholds)
		aggregateEvent.Elapse()
		debug = append(debug, aggregateEvent)

		if s.cacheEnabled() {
			s.cachePort.StoreNurseMonth(ctx, monthKey, days, diagnostics)
		}
	}

	today := s.today()
	calendar := &domain.NurseCalendar{
		Month:       monthKey,
		Days:        make(map[string]domain.NurseCalendarDay, len(days)),
		Diagnostics: diagnostics,
	}
	for key, aggregate := range days {
		date, err := utils.ParseDateKey(key, s.location)
		if err != nil {
			continue
		}
		calendar.Days[key] = domain.NurseCalendarDay{
			Aggregate: *aggregate,
			Warnings:  ClassifyNurseDay(aggregate, date, today),
		}
	}

	if withDebug {
		calendar.Debug = debug
	}

	return calendar, nil
}

func (s *RotaMonitorService) cachedDoctorMonth(ctx context.Context, monthKey string) (map[string]*domain.DayAggregate, domain.MonthDiagnostics, bool) {
	if !s.cacheEnabled() {
		return nil, domain.MonthDiagnostics{}, false
	}
	days, diagnostics, exists := s.cachePort.GetDoctorMonth(ctx, monthKey)
	if exists {
		s.logger.Debug("calendar.doctors.cache.hit", out.LogFields{
			"month": monthKey,
			"days":  len(days),
		})
	}
	return days, diagnostics, exists
}

func (s *RotaMonitorService) cachedNurseMonth(ctx context.Context, monthKey string) (map[string]*domain.NurseDayAggregate, domain.MonthDiagnostics, bool) {
	if !s.cacheEnabled() {
		return nil, domain.MonthDiagnostics{}, false
	}
	days, diagnostics, exists := s.cachePort.GetNurseMonth(ctx, monthKey)
	if exists {
		s.logger.Debug("calendar.nurses.cache.hit", out.LogFields{
			"month": monthKey,
			"days":  len(days),
		})
	}
	return days, diagnostics, exists
}

// DayCompliance evaluates every slot of one day and returns the flagged ones,
// ordered by slot time.
func (s *RotaMonitorService) DayCompliance(ctx context.Context, date time.Time) ([]domain.SlotCompliance, error) {
	dayStart := utils.StartCurrentDay(date.In(s.location))
	dayEnd := utils.StartNextDay(dayStart)

	rows, err := s.rowStorePort.GetSlotRows(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("compliance.day.rows.fetch_failed", out.LogFields{
			"date":  utils.FormatDateKey(dayStart),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("compliance.day.rows.fetch_failed: %w", err)
	}

	flagged := make([]domain.SlotCompliance, 0)
	for _, row := range rows {
		violations := s.rules.Evaluate(row)
		if len(violations) == 0 {
			continue
		}
		flagged = append(flagged, domain.SlotCompliance{
			Slot:       row,
			Violations: violations,
		})
	}

	return complianceSlice(flagged).quickSort(), nil
}

// LatestAdminAction reads the newest admin annotation for a date, cache-first.
func (s *RotaMonitorService) LatestAdminAction(ctx context.Context, date time.Time) (*domain.AdminAction, error) {
	dateKey := utils.FormatDateKey(date.In(s.location))

	if s.cacheEnabled() {
		if action, exists := s.cachePort.GetAdminAction(ctx, dateKey); exists {
			return action, nil
		}
	}

	action, err := s.rowStorePort.GetLatestAdminAction(ctx, date.In(s.location))
	if err != nil {
		s.logger.Error("admin_action.fetch_failed", out.LogFields{
			"date":  dateKey,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("admin_action.fetch_failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cachePort.StoreAdminAction(ctx, dateKey, action)
	}

	return action, nil
}

// Cache invalidation entrypoints, driven by the message listener

func (s *RotaMonitorService) InvalidateMonthCache(ctx context.Context, monthKey string) error {
	if s.cachePort == nil {
		return nil
	}
	s.cachePort.InvalidateMonth(ctx, monthKey)
	return nil
}

func (s *RotaMonitorService) InvalidateAllMonthsCache(ctx context.Context) error {
	if s.cachePort == nil {
		return nil
	}
	s.cachePort.InvalidateAllMonths(ctx)
	return nil
}

func (s *RotaMonitorService) InvalidateAdminActionCache(ctx context.Context, dateKey string) error {
	if s.cachePort == nil {
		return nil
	}
	s.cachePort.InvalidateAdminAction(ctx, dateKey)
	return nil
}
