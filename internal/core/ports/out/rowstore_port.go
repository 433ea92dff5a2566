package out

import (
	"context"
	"time"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
)

// RowStorePort is the boundary to the remote appointment table store. The
// core assumes the full relevant row set is fetched before aggregation runs;
// pagination and retries live behind this port.
type RowStorePort interface {
	// GetSlotRows fetches every slot row with a date inside [startDate, endDate).
	GetSlotRows(ctx context.Context, startDate, endDate time.Time) ([]domain.SlotRecord, error)

	// FindSlotRows fetches rows matching the store-side filters. Substring
	// clinician matching is not a store concern and stays in the core.
	FindSlotRows(ctx context.Context, filter domain.SlotFilter) ([]domain.SlotRecord, error)

	// GetLatestAdminAction reads the most recent admin annotation for a date,
	// or nil when the date carries none.
	GetLatestAdminAction(ctx context.Context, date time.Time) (*domain.AdminAction, error)
}
