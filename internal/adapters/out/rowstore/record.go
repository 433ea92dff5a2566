package rowstore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
)

// Slot rows reach the store through two paths: the backend (camelCase
// columns) and spreadsheet imports (the report's own headers, e.g.
// "Appointment Date"). The mapper accepts both; canonical names win when a
// row carries both forms.
var slotColumnAliases = map[string][]string{
	"id":              {"id", "ID"},
	"date":            {"date", "appointment_date", "Appointment Date"},
	"time":            {"time", "appointment_time", "Appointment Time"},
	"clinicianName":   {"clinicianName", "clinician", "Clinician"},
	"slotType":        {"slotType", "slot_type", "Slot Type"},
	"durationMinutes": {"durationMinutes", "duration", "Duration"},
	"availability":    {"availability", "Availability"},
}

func decodeSlotRow(raw map[string]json.RawMessage) domain.SlotRecord {
	record := domain.SlotRecord{
		Date:          stringColumn(raw, "date"),
		Time:          stringColumn(raw, "time"),
		ClinicianName: stringColumn(raw, "clinicianName"),
		SlotType:      stringColumn(raw, "slotType"),
		Availability:  stringColumn(raw, "availability"),
	}

	if id, err := uuid.Parse(stringColumn(raw, "id")); err == nil {
		record.ID = id
	}

	record.DurationMinutes = durationColumn(raw)

	return record
}

func rawColumn(raw map[string]json.RawMessage, canonical string) (json.RawMessage, bool) {
	for _, alias := range slotColumnAliases[canonical] {
		if value, ok := raw[alias]; ok {
			return value, true
		}
	}
	return nil, false
}

func stringColumn(raw map[string]json.RawMessage, canonical string) string {
	value, ok := rawColumn(raw, canonical)
	if !ok {
		return ""
	}

	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		return str
	}

	// Imports occasionally write numbers where text belongs
	var number json.Number
	if err := json.Unmarshal(value, &number); err == nil {
		return number.String()
	}

	return ""
}

// durationColumn reads the duration as minutes. Null, non-numeric and
// non-finite values all read as "no duration".
func durationColumn(raw map[string]json.RawMessage) *int {
	value, ok := rawColumn(raw, "durationMinutes")
	if !ok || string(value) == "null" {
		return nil
	}

	var number float64
	if err := json.Unmarshal(value, &number); err != nil {
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil
		}
		number = parsed
	}

	if math.IsNaN(number) || math.IsInf(number, 0) {
		return nil
	}

	minutes := int(number)
	return &minutes
}
