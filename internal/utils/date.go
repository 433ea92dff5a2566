package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the canonical day key used everywhere in the service.
// Keys are built from local calendar fields, never UTC, so a row dated
// "03-Nov-2025" keys the same day regardless of the server timezone.
const DateKeyLayout = "2006-01-02"

var monthAbbreviations = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// FormatDateKey returns the canonical YYYY-MM-DD key for a date.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a canonical key back into a local midnight date.
func ParseDateKey(key string, location *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateKeyLayout, key, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date key %q: %v", key, err)
	}
	return parsed, nil
}

// NormalizeDateKey converts a raw source date string into the canonical key.
// Source rows arrive in three shapes: ISO-prefixed strings, dd-MMM-yyyy and
// free text. Returns ok=false when every strategy fails, never an error.
func NormalizeDateKey(raw string, location *time.Location) (string, bool) {
	str := strings.TrimSpace(raw)
	if str == "" {
		return "", false
	}

	if key, ok := normalizeISOPrefix(str, location); ok {
		return key, true
	}
	if key, ok := normalizeDayMonthAbbrYear(str, location); ok {
		return key, true
	}
	if key, ok := normalizeLoose(str, location); ok {
		return key, true
	}
	// Some sources separate loose dates with dashes
	if key, ok := normalizeLoose(strings.ReplaceAll(str, "-", " "), location); ok {
		return key, true
	}

	return "", false
}

// normalizeISOPrefix handles ISO strings by truncating to the date part
func normalizeISOPrefix(str string, location *time.Location) (string, bool) {
	if len(str) < 10 {
		return "", false
	}
	parsed, err := time.ParseInLocation(DateKeyLayout, str[:10], location)
	if err != nil {
		return "", false
	}
	return FormatDateKey(parsed), true
}

// normalizeDayMonthAbbrYear handles dd-MMM-yyyy via the fixed month table,
// case-insensitive on the abbreviation.
func normalizeDayMonthAbbrYear(str string, location *time.Location) (string, bool) {
	parts := strings.Split(str, "-")
	if len(parts) != 3 {
		return "", false
	}

	month, ok := monthAbbreviations[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return "", false
	}

	var day, year int
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &day); err != nil {
		return "", false
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%d", &year); err != nil {
		return "", false
	}
	if day < 1 || day > 31 || year < 1000 {
		return "", false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, location)
	// time.Date normalizes overflow (e.g. 31-Feb), reject anything that moved
	if date.Day() != day || date.Month() != month || date.Year() != year {
		return "", false
	}

	return FormatDateKey(date), true
}

var looseLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// normalizeLoose is the best-effort fallback through generic date parsing.
func normalizeLoose(str string, location *time.Location) (string, bool) {
	for _, layout := range looseLayouts {
		if parsed, err := time.ParseInLocation(layout, str, location); err == nil {
			return FormatDateKey(parsed), true
		}
	}
	return "", false
}

// StartCurrentDay truncates a time to local midnight.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay returns local midnight of the following day.
func StartNextDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
}

// MonthBounds returns local midnight of the first day of the month containing t
// and of the first day of the next month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// ParseMonthKey parses a YYYY-MM month key into local midnight of its first day.
func ParseMonthKey(key string, location *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", key, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse month key %q: %v", key, err)
	}
	return parsed, nil
}

// FormatMonthKey returns the YYYY-MM cache/routing key for a date.
func FormatMonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	weekday := t.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}
