package in

import (
	"context"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
)

// RotaMonitorUseCase is the staff-dashboard surface of the core: calendar
// aggregation, per-slot compliance checks and remediation lookups.
type RotaMonitorUseCase interface {
	// DoctorCalendar aggregates one month (YYYY-MM) of slot rows into the
	// doctor calendar with per-day warnings.
	DoctorCalendar(ctx context.Context, monthKey string, withDebug bool) (*domain.DoctorCalendar, error)

	// NurseCalendar aggregates one month of slot rows into the nurse calendar.
	NurseCalendar(ctx context.Context, monthKey string, withDebug bool) (*domain.NurseCalendar, error)

	// DayCompliance evaluates every slot of one day against the rule table.
	DayCompliance(ctx context.Context, date time.Time) ([]domain.SlotCompliance, error)

	// FindAlternatives re-queries the horizon for slots that would satisfy the
	// rule the given slot failed.
	FindAlternatives(ctx context.Context, slot domain.SlotRecord, horizonDays int) ([]domain.SlotRecord, error)

	// LatestAdminAction reads the newest admin annotation for a date.
	LatestAdminAction(ctx context.Context, date time.Time) (*domain.AdminAction, error)

	// Cache invalidation entrypoints for the message listener
	InvalidateMonthCache(ctx context.Context, monthKey string) error
	InvalidateAllMonthsCache(ctx context.Context) error
	InvalidateAdminActionCache(ctx context.Context, dateKey string) error
}
