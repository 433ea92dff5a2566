package domain

// ClinicianGroup names a role-group a rule can allow instead of (or alongside)
// explicitly named clinicians.
type ClinicianGroup string

const (
	ClinicianGroupNone  ClinicianGroup = ""
	ClinicianGroupNurse ClinicianGroup = "nurse"
)

// ComplianceRule is one row of the slot-compliance table: an exact
// (post-normalization) slot type mapped to its requirements. A matched rule
// always applies in full — every violated requirement produces one message.
type ComplianceRule struct {
	SlotTypeMatch      string
	MinDurationMinutes int
	AllowedClinicians  []string
	AllowedGroup       ClinicianGroup
}

// HasDurationRequirement reports whether the rule carries a minimum duration.
func (r ComplianceRule) HasDurationRequirement() bool {
	return r.MinDurationMinutes > 0
}

// HasClinicianRequirement reports whether the rule restricts who may take the slot.
func (r ComplianceRule) HasClinicianRequirement() bool {
	return len(r.AllowedClinicians) > 0 || r.AllowedGroup != ClinicianGroupNone
}

// Violation is one human-readable rule failure for a slot. A slot can carry
// several at once (duration and clinician fail independently).
type Violation struct {
	SlotType string `json:"slotType"`
	Message  string `json:"message"`
}

// SlotCompliance pairs a slot with the violations it carries, for the flagged
// slots table.
type SlotCompliance struct {
	Slot       SlotRecord  `json:"slot"`
	Violations []Violation `json:"violations"`
}
