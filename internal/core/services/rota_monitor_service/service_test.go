package rota_monitor_service

import (
	"context"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
)

// Shared fixtures for the service tests.

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "Europe/London"

	cfg.Calendar.MondayOnTheDayThreshold = 25
	cfg.Calendar.WeekdayOnTheDayThreshold = 20
	cfg.Calendar.NurseLunchHoursThreshold = 3

	cfg.Alternatives.MaxResults = 50
	cfg.Alternatives.HorizonDays = 14

	cfg.Identity.TraineeIdentifiers = []string{"okafor", "beresford"}
	cfg.Identity.NurseSurnames = []string{"masterson", "barton", "clegg", "owens", "pritchard"}

	cfg.Rules.HCAClinicians = []string{"MANSELL, Kelly (Miss)", "AMISON, Kelly (Miss)"}
	cfg.Rules.CKDReviewClinician = "MANSELL, Kelly (Miss)"
	cfg.Rules.B12Clinician = "AMISON, Kelly (Miss)"
	cfg.Rules.NurseTeam = []string{
		"MASTERSON, Sarah (Miss)",
		"BARTON, Emma (Mrs)",
		"CLEGG, Joanne (Mrs)",
		"OWENS, Diane (Mrs)",
		"PRITCHARD, Helen (Mrs)",
	}

	return cfg
}

func testIdentityClassifier() domain.IdentityClassifier {
	cfg := testConfig()
	return domain.IdentityClassifier{
		TraineeIdentifiers: cfg.Identity.TraineeIdentifiers,
		NurseSurnames:      cfg.Identity.NurseSurnames,
	}
}

func testThresholds() AggregationThresholds {
	return ThresholdsFromConfig(testConfig())
}

func intPtr(v int) *int {
	return &v
}

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields) {}
func (nopLogger) Info(event string, fields out.LogFields)  {}
func (nopLogger) Warn(event string, fields out.LogFields)  {}
func (nopLogger) Error(event string, fields out.LogFields) {}

func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

// stubRowStore serves canned rows and records the last filter it saw.
type stubRowStore struct {
	rows       []domain.SlotRecord
	err        error
	lastFilter domain.SlotFilter
}

func (s *stubRowStore) GetSlotRows(ctx context.Context, startDate, endDate time.Time) ([]domain.SlotRecord, error) {
	return s.rows, s.err
}

func (s *stubRowStore) FindSlotRows(ctx context.Context, filter domain.SlotFilter) ([]domain.SlotRecord, error) {
	s.lastFilter = filter
	return s.rows, s.err
}

func (s *stubRowStore) GetLatestAdminAction(ctx context.Context, date time.Time) (*domain.AdminAction, error) {
	return nil, nil
}

func newTestService(store *stubRowStore) *RotaMonitorService {
	svc := NewRotaMonitorService(store, nil, nopLogger{}, testConfig())
	svc.now = func() time.Time {
		return time.Date(2025, time.November, 3, 9, 0, 0, 0, svc.location)
	}
	return svc
}
