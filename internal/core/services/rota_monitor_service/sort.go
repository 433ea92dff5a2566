package rota_monitor_service

import "github.com/oakwellmc/rota-monitor/internal/core/domain"

type complianceSlice []domain.SlotCompliance

// quickSort orders flagged slots by time of day, then clinician, for a stable
// compliance table. Slot times are HH:MM strings, lexicographic order is
// chronological.
func (s complianceSlice) quickSort() complianceSlice {
	if len(s) < 2 {
		return s
	}

	pivot := s[len(s)/2]

	less := complianceSlice{}
	equal := complianceSlice{}
	greater := complianceSlice{}

	for _, entry := range s {
		switch {
		case complianceLess(entry, pivot):
			less = append(less, entry)
		case complianceLess(pivot, entry):
			greater = append(greater, entry)
		default:
			equal = append(equal, entry)
		}
	}

	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

func complianceLess(a, b domain.SlotCompliance) bool {
	if a.Slot.Time != b.Slot.Time {
		return a.Slot.Time < b.Slot.Time
	}
	return a.Slot.ClinicianName < b.Slot.ClinicianName
}
