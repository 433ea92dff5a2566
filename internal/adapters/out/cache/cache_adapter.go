package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
)

// monthEntry holds both calendar folds for one YYYY-MM key. Either side can
// be present independently; a slot change invalidates the whole entry.
type monthEntry struct {
	doctorDays        map[string]*domain.DayAggregate
	doctorDiagnostics domain.MonthDiagnostics
	hasDoctor         bool

	nurseDays        map[string]*domain.NurseDayAggregate
	nurseDiagnostics domain.MonthDiagnostics
	hasNurse         bool
}

type adminActionEntry struct {
	action   *domain.AdminAction
	storedAt time.Time
}

const adminActionTTL = 5 * time.Minute

// CacheAdapter keeps recent month folds in an LRU and the latest admin
// annotation per date behind a short TTL. Only today-independent facts are
// cached; warning classification never is.
type CacheAdapter struct {
	months       *lru.Cache[string, *monthEntry]
	adminActions map[string]adminActionEntry
	mu           sync.RWMutex
	logger       out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	months, err := lru.New[string, *monthEntry](cfg.Cache.MonthsSize)
	if err != nil {
		logger.Error("cache.months.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.MonthsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		months:       months,
		adminActions: make(map[string]adminActionEntry),
		logger:       logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetDoctorMonth(ctx context.Context, monthKey string) (map[string]*domain.DayAggregate, domain.MonthDiagnostics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.months.Get(monthKey)
	if !exists || !entry.hasDoctor {
		c.logger.Debug("cache.doctor_month.miss", out.LogFields{
			"month": monthKey,
		})
		return nil, domain.MonthDiagnostics{}, false
	}

	c.logger.Debug("cache.doctor_month.hit", out.LogFields{
		"month": monthKey,
		"days":  len(entry.doctorDays),
	})
	return entry.doctorDays, entry.doctorDiagnostics, true
}

func (c *CacheAdapter) StoreDoctorMonth(ctx context.Context, monthKey string, days map[string]*domain.DayAggregate, diagnostics domain.MonthDiagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.months.Get(monthKey)
	if !exists {
		entry = &monthEntry{}
	}
	entry.doctorDays = days
	entry.doctorDiagnostics = diagnostics
	entry.hasDoctor = true
	c.months.Add(monthKey, entry)

	c.logger.Debug("cache.doctor_month.store", out.LogFields{
		"month": monthKey,
		"days":  len(days),
	})
}

func (c *CacheAdapter) GetNurseMonth(ctx context.Context, monthKey string) (map[string]*domain.NurseDayAggregate, domain.MonthDiagnostics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.months.Get(monthKey)
	if !exists || !entry.hasNurse {
		c.logger.Debug("cache.nurse_month.miss", out.LogFields{
			"month": monthKey,
		})
		return nil, domain.MonthDiagnostics{}, false
	}

	c.logger.Debug("cache.nurse_month.hit", out.LogFields{
		"month": monthKey,
		"days":  len(entry.nurseDays),
	})
	return entry.nurseDays, entry.nurseDiagnostics, true
}

func (c *CacheAdapter) StoreNurseMonth(ctx context.Context, monthKey string, days map[string]*domain.NurseDayAggregate, diagnostics domain.MonthDiagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.months.Get(monthKey)
	if !exists {
		entry = &monthEntry{}
	}
	entry.nurseDays = days
	entry.nurseDiagnostics = diagnostics
	entry.hasNurse = true
	c.months.Add(monthKey, entry)

	c.logger.Debug("cache.nurse_month.store", out.LogFields{
		"month": monthKey,
		"days":  len(days),
	})
}

func (c *CacheAdapter) InvalidateMonth(ctx context.Context, monthKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.months.Remove(monthKey)
	c.logger.Debug("cache.month.invalidate", out.LogFields{
		"month": monthKey,
	})
}

func (c *CacheAdapter) InvalidateAllMonths(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.months.Purge()
	c.logger.Debug("cache.month.invalidate_all", out.LogFields{})
}

func (c *CacheAdapter) GetAdminAction(ctx context.Context, dateKey string) (*domain.AdminAction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.adminActions[dateKey]
	if !exists || time.Since(entry.storedAt) > adminActionTTL {
		return nil, false
	}
	return entry.action, true
}

func (c *CacheAdapter) StoreAdminAction(ctx context.Context, dateKey string, action *domain.AdminAction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.adminActions[dateKey] = adminActionEntry{
		action:   action,
		storedAt: time.Now(),
	}
}

func (c *CacheAdapter) InvalidateAdminAction(ctx context.Context, dateKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.adminActions, dateKey)
}
