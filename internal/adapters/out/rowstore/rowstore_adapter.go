package rowstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/json_types"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// RowStoreAdapter reads the remote appointment tables over their REST API
// (PostgREST-style column filters: eq./gte./lt. operators, limit/offset
// pagination). The full relevant row set is paged in before the core
// aggregates, so the core never sees a partially filled collection.
type RowStoreAdapter struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	slotsTable string
	adminTable string
	pageSize   int
	rawColumns bool
	logger     out.LoggerPort
}

func NewRowStoreAdapter(cfg *config.Config, logger out.LoggerPort) *RowStoreAdapter {
	return &RowStoreAdapter{
		client:     &http.Client{Timeout: time.Duration(cfg.RowStore.TimeoutSeconds) * time.Second},
		baseURL:    cfg.RowStore.URL,
		apiKey:     cfg.RowStore.APIKey,
		slotsTable: cfg.RowStore.SlotsTable,
		adminTable: cfg.RowStore.AdminTable,
		pageSize:   cfg.RowStore.PageSize,
		rawColumns: cfg.RowStore.RawColumnNames,
		logger:     logger,
	}
}

// Query column names per deployment. Spreadsheet-import deployments keep the
// report's own headers.
var canonicalQueryColumns = map[string]string{
	"date":         "date",
	"slotType":     "slot_type",
	"availability": "availability",
	"adminDate":    "appointment_date",
	"createdAt":    "created_at",
}

var rawQueryColumns = map[string]string{
	"date":         "Appointment Date",
	"slotType":     "Slot Type",
	"availability": "Availability",
	"adminDate":    "appointment_date",
	"createdAt":    "created_at",
}

func (a *RowStoreAdapter) queryColumn(field string) string {
	if a.rawColumns {
		return rawQueryColumns[field]
	}
	return canonicalQueryColumns[field]
}

// GetSlotRows fetches every slot row dated inside [startDate, endDate).
func (a *RowStoreAdapter) GetSlotRows(ctx context.Context, startDate, endDate time.Time) ([]domain.SlotRecord, error) {
	a.logger.Info("rowstore.slots.fetch", out.LogFields{
		"start": utils.FormatDateKey(startDate),
		"end":   utils.FormatDateKey(endDate),
	})

	query := nurl.Values{}
	query.Add(a.queryColumn("date"), "gte."+utils.FormatDateKey(startDate))
	query.Add(a.queryColumn("date"), "lt."+utils.FormatDateKey(endDate))

	return a.pageSlotRows(ctx, query, 0)
}

// FindSlotRows fetches rows matching the store-side filters.
func (a *RowStoreAdapter) FindSlotRows(ctx context.Context, filter domain.SlotFilter) ([]domain.SlotRecord, error) {
	a.logger.Info("rowstore.slots.find", out.LogFields{
		"slotType":     filter.SlotType,
		"availability": filter.Availability,
		"start":        filter.StartDate,
		"end":          filter.EndDate,
	})

	query := nurl.Values{}
	if filter.StartDate != "" {
		query.Add(a.queryColumn("date"), "gte."+filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Add(a.queryColumn("date"), "lt."+filter.EndDate)
	}
	if filter.SlotType != "" {
		query.Add(a.queryColumn("slotType"), "eq."+filter.SlotType)
	}
	if filter.Availability != "" {
		query.Add(a.queryColumn("availability"), "eq."+string(filter.Availability))
	}

	return a.pageSlotRows(ctx, query, filter.Limit)
}

// pageSlotRows walks limit/offset pages until a short page or the row cap.
func (a *RowStoreAdapter) pageSlotRows(ctx context.Context, baseQuery nurl.Values, maxRows int) ([]domain.SlotRecord, error) {
	var records []domain.SlotRecord

	for offset := 0; ; offset += a.pageSize {
		query := nurl.Values{}
		for key, values := range baseQuery {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		query.Set("order", a.queryColumn("date")+".asc")
		query.Set("limit", fmt.Sprintf("%d", a.pageSize))
		query.Set("offset", fmt.Sprintf("%d", offset))

		page, err := a.fetchSlotPage(ctx, query)
		if err != nil {
			return nil, err
		}

		records = append(records, page...)

		if maxRows > 0 && len(records) >= maxRows {
			records = records[:maxRows]
			break
		}
		if len(page) < a.pageSize {
			break
		}
	}

	a.logger.Debug("rowstore.slots.fetch_success", out.LogFields{
		"count": len(records),
	})

	return records, nil
}

func (a *RowStoreAdapter) fetchSlotPage(ctx context.Context, query nurl.Values) ([]domain.SlotRecord, error) {
	url := fmt.Sprintf("%s/%s", a.baseURL, a.slotsTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = query.Encode()
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("rowstore.slots.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("rowstore.slots.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rawRows []map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rawRows); err != nil {
		a.logger.Error("rowstore.slots.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	records := make([]domain.SlotRecord, 0, len(rawRows))
	for _, rawRow := range rawRows {
		records = append(records, decodeSlotRow(rawRow))
	}

	return records, nil
}

type adminActionRow struct {
	ID        string              `json:"id"`
	Date      json_types.Date     `json:"appointment_date"`
	Action    string              `json:"action"`
	CreatedBy string              `json:"created_by"`
	CreatedAt json_types.DateTime `json:"created_at"`
}

// GetLatestAdminAction reads the newest annotation for one date. The table
// has overwrite-by-insert semantics, so latest created_at wins.
func (a *RowStoreAdapter) GetLatestAdminAction(ctx context.Context, date time.Time) (*domain.AdminAction, error) {
	dateKey := utils.FormatDateKey(date)

	url := fmt.Sprintf("%s/%s", a.baseURL, a.adminTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add(a.queryColumn("adminDate"), "eq."+dateKey)
	query.Add("order", a.queryColumn("createdAt")+".desc")
	query.Add("limit", "1")
	req.URL.RawQuery = query.Encode()
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("rowstore.admin_action.fetch_failed", out.LogFields{
			"date":  dateKey,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("rowstore.admin_action.fetch_failed", out.LogFields{
			"date":   dateKey,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rows []adminActionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		a.logger.Error("rowstore.admin_action.decode_failed", out.LogFields{
			"date":  dateKey,
			"error": err.Error(),
		})
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].toDomain(dateKey), nil
}

func (r adminActionRow) toDomain(dateKey string) *domain.AdminAction {
	action := &domain.AdminAction{
		Date:      dateKey,
		Action:    r.Action,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.Date,
	}
	if !r.Date.Date.IsZero() {
		action.Date = utils.FormatDateKey(r.Date.Date)
	}
	if id, err := uuid.Parse(r.ID); err == nil {
		action.ID = id
	}
	return action
}

func (a *RowStoreAdapter) authorize(req *http.Request) {
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "application/json")
}
