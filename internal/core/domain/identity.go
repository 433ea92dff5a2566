package domain

import "strings"

// IdentityClassifier holds the substring lists used to classify free-text
// clinician names. The source data has no staff IDs, so surname/marker
// matching is the identity model; the lists live in config, not in call sites.
type IdentityClassifier struct {
	TraineeIdentifiers []string
	NurseSurnames      []string
}

const doctorMarker = "(dr)"

// IsExcluded reports whether a row's clinician must be dropped before any
// counting. Rows tagged "covid" are bad source data.
func (c IdentityClassifier) IsExcluded(clinicianName string) bool {
	return strings.Contains(strings.ToLower(clinicianName), "covid")
}

// IsTrainee matches the clinician name against the known trainee identifiers.
func (c IdentityClassifier) IsTrainee(clinicianName string) bool {
	lower := strings.ToLower(clinicianName)
	for _, id := range c.TraineeIdentifiers {
		if id != "" && strings.Contains(lower, strings.ToLower(id)) {
			return true
		}
	}
	return false
}

// MatchedTraineeIdentifiers returns which configured trainee identifiers the
// name contains. The trainee-ratio warning needs to know that every known
// trainee was present, not just that some trainee was.
func (c IdentityClassifier) MatchedTraineeIdentifiers(clinicianName string) []string {
	lower := strings.ToLower(clinicianName)
	var matched []string
	for _, id := range c.TraineeIdentifiers {
		if id != "" && strings.Contains(lower, strings.ToLower(id)) {
			matched = append(matched, strings.ToLower(id))
		}
	}
	return matched
}

// IsDoctor reports whether the name carries the literal "(Dr)" marker.
func (c IdentityClassifier) IsDoctor(clinicianName string) bool {
	return strings.Contains(strings.ToLower(clinicianName), doctorMarker)
}

// IsNurse matches the clinician name against the known nurse surnames.
func (c IdentityClassifier) IsNurse(clinicianName string) bool {
	lower := strings.ToLower(clinicianName)
	for _, surname := range c.NurseSurnames {
		if surname != "" && strings.Contains(lower, strings.ToLower(surname)) {
			return true
		}
	}
	return false
}
