package entity

import (
	"time"
)

// WebhookEvent records one inbound gateway event. The unique constraint on
// (provider, provider_event_id) is the idempotency boundary: a second
// delivery fails the insert and is acknowledged as a duplicate.
type WebhookEvent struct {
	BaseSimple
	Provider        string     `db:"provider"`
	ProviderEventID string     `db:"provider_event_id"`
	EventType       string     `db:"event_type"`
	Payload         []byte     `db:"payload"`
	Processed       bool       `db:"processed"`
	ProcessedAt     *time.Time `db:"processed_at"`
}
