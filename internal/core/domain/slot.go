package domain

import (
	"strings"

	"github.com/google/uuid"
)

type SlotAvailability string

const (
	SlotAvailabilityAvailable SlotAvailability = "Available"
	SlotAvailabilityBooked    SlotAvailability = "Booked"
	SlotAvailabilityEmbargoed SlotAvailability = "Embargoed"
)

// SlotRecord is one scheduled appointment slot as read from the remote row
// store. Everything except ID and DurationMinutes is free text; Date keeps the
// raw source string and is normalized at aggregation time. ClinicianName is
// the only identity key the source data carries.
type SlotRecord struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	ClinicianName   string    `json:"clinicianName"`
	SlotType        string    `json:"slotType"`
	DurationMinutes *int      `json:"durationMinutes"`
	Availability    string    `json:"availability"`
}

// NormalizedType returns the slot type lowered and trimmed, the form every
// rule and heuristic matches against.
func (s SlotRecord) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(s.SlotType))
}

// IsAvailable matches the availability status case-insensitively.
func (s SlotRecord) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(s.Availability), string(SlotAvailabilityAvailable))
}

// SlotFilter describes the store-side filters the row store supports:
// equality on slot type and availability plus a date range and a row cap.
type SlotFilter struct {
	StartDate    string
	EndDate      string
	SlotType     string
	Availability SlotAvailability
	Limit        int
}
