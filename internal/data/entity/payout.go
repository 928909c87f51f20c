package entity

import (
	"github.com/google/uuid"
)

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
	PayoutStatusFailed  PayoutStatus = "failed"
)

// ProviderPayout tracks what a provider is owed for one completed, paid
// booking item. One row per booking item, enforced by a unique constraint.
type ProviderPayout struct {
	Base
	BookingItemID    uuid.UUID    `db:"booking_item_id"`
	ProviderID       uuid.UUID    `db:"provider_id"`
	Amount           int64        `db:"amount"`
	PlatformFee      int64        `db:"platform_fee"`
	NetAmount        int64        `db:"net_amount"`
	Status           PayoutStatus `db:"status"`
	SettlementPeriod string       `db:"settlement_period"`
}
