package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the narrow view of an externally issued auth session. This
// service only resolves opaque bearer tokens to a principal; it never
// creates or refreshes sessions.
type Session struct {
	Token      string     `db:"token"`
	UserID     uuid.UUID  `db:"user_id"`
	Roles      []string   `db:"roles"`
	ProviderID *uuid.UUID `db:"provider_id"`
	ExpiresAt  time.Time  `db:"expires_at"`
}
