package out

import (
	"context"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
)

// CachePort caches per-month aggregate folds keyed by YYYY-MM. Only the
// today-independent facts are cached; warning classification is recomputed on
// every read.
type CachePort interface {
	GetDoctorMonth(ctx context.Context, monthKey string) (map[string]*domain.DayAggregate, domain.MonthDiagnostics, bool)
	StoreDoctorMonth(ctx context.Context, monthKey string, days map[string]*domain.DayAggregate, diagnostics domain.MonthDiagnostics)

	GetNurseMonth(ctx context.Context, monthKey string) (map[string]*domain.NurseDayAggregate, domain.MonthDiagnostics, bool)
	StoreNurseMonth(ctx context.Context, monthKey string, days map[string]*domain.NurseDayAggregate, diagnostics domain.MonthDiagnostics)

	InvalidateMonth(ctx context.Context, monthKey string)
	InvalidateAllMonths(ctx context.Context)

	// Latest admin annotation per date, short TTL
	GetAdminAction(ctx context.Context, dateKey string) (*domain.AdminAction, bool)
	StoreAdminAction(ctx context.Context, dateKey string, action *domain.AdminAction)
	InvalidateAdminAction(ctx context.Context, dateKey string)
}
