package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment is the at-most-one gateway order attached to a booking.
// GatewayPaymentID stays nil until the gateway reports a capture or
// authorization.
type Payment struct {
	Base
	BookingID        uuid.UUID     `db:"booking_id"`
	GatewayOrderID   string        `db:"gateway_order_id"`
	GatewayPaymentID *string       `db:"gateway_payment_id"`
	Amount           int64         `db:"amount"`
	Currency         string        `db:"currency"`
	Status           PaymentStatus `db:"status"`
}

type RefundStatus string

const (
	RefundStatusCreated   RefundStatus = "created"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Refund rows are deduplicated by the gateway refund id, never by amount,
// so two partial refunds of equal size are both recorded.
type Refund struct {
	BaseSimple
	PaymentID       uuid.UUID    `db:"payment_id"`
	GatewayRefundID string       `db:"gateway_refund_id"`
	Amount          int64        `db:"amount"`
	Status          RefundStatus `db:"status"`
}
