package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRecord is one row of the per-resource, per-day inventory
// ledger. Invariant: 0 <= available <= total, enforced by the conditional
// updates in the repository, never by read-then-write.
type AvailabilityRecord struct {
	ResourceID uuid.UUID `db:"resource_id"`
	Day        time.Time `db:"day"`
	Total      int       `db:"total"`
	Available  int       `db:"available"`
	UpdatedAt  time.Time `db:"updated_at"`
}
