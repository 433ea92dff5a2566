package rota_monitor_service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Slot-type heuristics. The source data is free text typed by receptionists,
// so classification is substring-based. The on-the-day list is provisional:
// two known textual variants today, extend here when a new one shows up.

func isOnTheDayType(normalizedType string) bool {
	if strings.Contains(normalizedType, "book on the day") {
		return true
	}
	return strings.Contains(normalizedType, "on the day") &&
		strings.Contains(normalizedType, "gp") &&
		strings.Contains(normalizedType, "book")
}

func isDutyType(normalizedType string) bool {
	return strings.Contains(normalizedType, "emergency") &&
		strings.Contains(normalizedType, "gp") &&
		strings.Contains(normalizedType, "book")
}

func isOneWeekType(normalizedType string) bool {
	return strings.Contains(normalizedType, "within 1 week")
}

func isTwoWeekType(normalizedType string) bool {
	return strings.Contains(normalizedType, "1 to 2 weeks")
}

func isSampleTestingType(normalizedType string) bool {
	if strings.Contains(normalizedType, "sample testing") {
		return true
	}
	return strings.Contains(normalizedType, "sample") && strings.Contains(normalizedType, "testing")
}

func isLunchType(normalizedType string) bool {
	return strings.Contains(normalizedType, "lunch")
}

// Nurse availability cells sometimes embed a working range, e.g.
// "Available 08:30 - 12:30" or "08:30 to 12:30". Hyphen, en dash and "to"
// all occur in real rows.
var availabilityRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(?:-|–|—|to)\s*(\d{1,2}):(\d{2})`)

// parseAvailabilityHours extracts the duration in hours of an embedded
// HH:MM - HH:MM range. Anything unparseable contributes 0.
func parseAvailabilityHours(availability string) float64 {
	match := availabilityRangePattern.FindStringSubmatch(availability)
	if match == nil {
		return 0
	}

	startHour, _ := strconv.Atoi(match[1])
	startMinute, _ := strconv.Atoi(match[2])
	endHour, _ := strconv.Atoi(match[3])
	endMinute, _ := strconv.Atoi(match[4])

	if startHour > 23 || endHour > 23 || startMinute > 59 || endMinute > 59 {
		return 0
	}

	hours := float64(endHour*60+endMinute-startHour*60-startMinute) / 60
	if hours < 0 {
		return 0
	}
	return hours
}

// sortedNames flattens a name set into a sorted slice so that two folds over
// the same input compare structurally equal.
func sortedNames(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
