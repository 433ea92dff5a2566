package rota_monitor_service

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// FindAlternatives re-derives the rule the violating slot failed and queries
// the remaining horizon for rows that would satisfy it: same slot type,
// available, duration at or above the rule minimum and an allowed clinician.
// A slot type without a rule row yields an empty result, not an error.
// Results keep the store's native ordering, capped by config.
func (s *RotaMonitorService) FindAlternatives(ctx context.Context, slot domain.SlotRecord, horizonDays int) ([]domain.SlotRecord, error) {
	rule, ok := s.rules.RuleFor(slot.SlotType)
	if !ok {
		s.logger.Debug("alternatives.no_rule", out.LogFields{
			"slotType": slot.SlotType,
		})
		return []domain.SlotRecord{}, nil
	}

	if horizonDays <= 0 {
		horizonDays = s.cfg.Alternatives.HorizonDays
	}

	today := s.today()
	filter := domain.SlotFilter{
		StartDate:    utils.FormatDateKey(today),
		EndDate:      utils.FormatDateKey(today.AddDate(0, 0, horizonDays)),
		SlotType:     strings.TrimSpace(slot.SlotType),
		Availability: domain.SlotAvailabilityAvailable,
	}

	rows, err := s.rowStorePort.FindSlotRows(ctx, filter)
	if err != nil {
		s.logger.Error("alternatives.rows.fetch_failed", out.LogFields{
			"slotType": slot.SlotType,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("alternatives.rows.fetch_failed: %w", err)
	}

	maxResults := s.cfg.Alternatives.MaxResults
	alternatives := make([]domain.SlotRecord, 0)
	for _, row := range rows {
		if rule.HasDurationRequirement() && !durationMeets(row.DurationMinutes, rule.MinDurationMinutes) {
			continue
		}
		if rule.HasClinicianRequirement() && !s.rules.clinicianAllowed(rule, row.ClinicianName) {
			continue
		}
		alternatives = append(alternatives, row)
		if maxResults > 0 && len(alternatives) >= maxResults {
			break
		}
	}

	s.logger.Debug("alternatives.found", out.LogFields{
		"slotType": slot.SlotType,
		"count":    len(alternatives),
	})

	return alternatives, nil
}
