package rota_monitor_service

import (
	"fmt"
	"strings"

	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
)

// RuleTable is the single source of truth for slot-compliance requirements.
// Rules are an allow-list: a slot type without a row is never a violation.
// Matching on slot type is exact after lowering and trimming; no fuzzy match.
type RuleTable struct {
	rules     []domain.ComplianceRule
	nurseTeam []string
}

func NewRuleTable(cfg *config.Config) *RuleTable {
	hca := cfg.Rules.HCAClinicians

	return &RuleTable{
		nurseTeam: cfg.Rules.NurseTeam,
		rules: []domain.ComplianceRule{
			{SlotTypeMatch: "blood clinic", MinDurationMinutes: 10, AllowedClinicians: hca},
			{SlotTypeMatch: "ecg", MinDurationMinutes: 30, AllowedClinicians: hca},
			{SlotTypeMatch: "wound check", MinDurationMinutes: 30, AllowedGroup: domain.ClinicianGroupNurse},
			{SlotTypeMatch: "annual review multiple", MinDurationMinutes: 45, AllowedGroup: domain.ClinicianGroupNurse},
			{SlotTypeMatch: "hyperten annual review", MinDurationMinutes: 30, AllowedClinicians: hca},
			{SlotTypeMatch: "hyperten or ckd review", MinDurationMinutes: 30, AllowedClinicians: []string{cfg.Rules.CKDReviewClinician}},
			{SlotTypeMatch: "flu clinic", AllowedClinicians: hca},
			{SlotTypeMatch: "b12", MinDurationMinutes: 10, AllowedClinicians: []string{cfg.Rules.B12Clinician}},
		},
	}
}

// RuleFor returns the rule row for a slot type, if one exists.
func (t *RuleTable) RuleFor(slotType string) (domain.ComplianceRule, bool) {
	normalized := strings.ToLower(strings.TrimSpace(slotType))
	for _, rule := range t.rules {
		if rule.SlotTypeMatch == normalized {
			return rule, true
		}
	}
	return domain.ComplianceRule{}, false
}

// AllowedClinicians resolves a rule's allowed set, expanding the nurse
// role-group from config.
func (t *RuleTable) AllowedClinicians(rule domain.ComplianceRule) []string {
	allowed := make([]string, 0, len(rule.AllowedClinicians)+len(t.nurseTeam))
	allowed = append(allowed, rule.AllowedClinicians...)
	if rule.AllowedGroup == domain.ClinicianGroupNurse {
		allowed = append(allowed, t.nurseTeam...)
	}
	return allowed
}

// Evaluate checks one slot against the rule table and returns every violated
// requirement as an independent message. Total function: missing fields read
// as empty, a nil duration reads as "no duration" and always fails a minimum.
func (t *RuleTable) Evaluate(slot domain.SlotRecord) []domain.Violation {
	rule, ok := t.RuleFor(slot.SlotType)
	if !ok {
		return nil
	}

	violations := make([]domain.Violation, 0, 2)

	if rule.HasDurationRequirement() && !durationMeets(slot.DurationMinutes, rule.MinDurationMinutes) {
		violations = append(violations, domain.Violation{
			SlotType: slot.SlotType,
			Message: fmt.Sprintf("%s slot must be at least %d minutes, found %s",
				strings.TrimSpace(slot.SlotType), rule.MinDurationMinutes, describeDuration(slot.DurationMinutes)),
		})
	}

	if rule.HasClinicianRequirement() && !t.clinicianAllowed(rule, slot.ClinicianName) {
		violations = append(violations, domain.Violation{
			SlotType: slot.SlotType,
			Message: fmt.Sprintf("%s slot must be taken by %s, found %q",
				strings.TrimSpace(slot.SlotType), t.describeAllowed(rule), strings.TrimSpace(slot.ClinicianName)),
		})
	}

	if len(violations) == 0 {
		return nil
	}
	return violations
}

func (t *RuleTable) clinicianAllowed(rule domain.ComplianceRule, clinicianName string) bool {
	name := strings.TrimSpace(clinicianName)
	for _, allowed := range t.AllowedClinicians(rule) {
		if strings.EqualFold(name, strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

func (t *RuleTable) describeAllowed(rule domain.ComplianceRule) string {
	if rule.AllowedGroup == domain.ClinicianGroupNurse && len(rule.AllowedClinicians) == 0 {
		return "any practice nurse"
	}
	return strings.Join(t.AllowedClinicians(rule), " or ")
}

func durationMeets(durationMinutes *int, minimum int) bool {
	return durationMinutes != nil && *durationMinutes >= minimum
}

func describeDuration(durationMinutes *int) string {
	if durationMinutes == nil {
		return "no duration"
	}
	return fmt.Sprintf("%d minutes", *durationMinutes)
}
