package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminAction is a persisted per-date annotation written by practice staff.
// The store keeps every insert; only the latest one per date is read, as a
// display tag. Never used as rule input and never written by this service.
type AdminAction struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Action    string    `json:"action"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
