package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusRequested       BookingStatus = "requested"
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusRejected        BookingStatus = "rejected"
	BookingStatusExpired         BookingStatus = "expired"
	BookingStatusPaymentFailed   BookingStatus = "payment_failed"
	BookingStatusRefunded        BookingStatus = "refunded"
)

type Booking struct {
	Base
	Reference      string        `db:"reference"`
	UserID         uuid.UUID     `db:"user_id"`
	Status         BookingStatus `db:"status"`
	TotalAmount    int64         `db:"total_amount"`
	DiscountAmount int64         `db:"discount_amount"`
	PaidAmount     int64         `db:"paid_amount"`
	CouponID       *uuid.UUID    `db:"coupon_id"`
	ConfirmedAt    *time.Time    `db:"confirmed_at"`
	ExpiresAt      *time.Time    `db:"expires_at"`
	CancelledAt    *time.Time    `db:"cancelled_at"`
}

// BookingItem is one line of a booking. For date-ranged products EndDate is
// exclusive: a two-night stay touches exactly two availability days.
type BookingItem struct {
	BaseSimple
	BookingID      uuid.UUID   `db:"booking_id"`
	ProductType    ProductType `db:"product_type"`
	ProductID      uuid.UUID   `db:"product_id"`
	StartDate      time.Time   `db:"start_date"`
	EndDate        time.Time   `db:"end_date"`
	Quantity       int         `db:"quantity"`
	UnitPrice      int64       `db:"unit_price"`
	TotalPrice     int64       `db:"total_price"`
	PermitRequired bool        `db:"permit_required"`
}

// Nights returns how many availability days the item spans.
func (i *BookingItem) Nights() int {
	return int(i.EndDate.Sub(i.StartDate).Hours() / 24)
}
