package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

// PaymentOrderResponse is what the checkout page needs to open the gateway
// widget. KeyID is the public half of the gateway credentials.
type PaymentOrderResponse struct {
	PaymentID      string `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

type PaymentResponse struct {
	ID               string               `json:"id"`
	BookingID        string               `json:"booking_id"`
	GatewayOrderID   string               `json:"gateway_order_id"`
	GatewayPaymentID *string              `json:"gateway_payment_id,omitempty"`
	Amount           int64                `json:"amount"`
	Currency         string               `json:"currency"`
	Status           entity.PaymentStatus `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
}

type RefundResponse struct {
	ID              string              `json:"id"`
	PaymentID       string              `json:"payment_id"`
	GatewayRefundID string              `json:"gateway_refund_id"`
	Amount          int64               `json:"amount"`
	Status          entity.RefundStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:               payment.ID.String(),
		BookingID:        payment.BookingID.String(),
		GatewayOrderID:   payment.GatewayOrderID,
		GatewayPaymentID: payment.GatewayPaymentID,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		Status:           payment.Status,
		CreatedAt:        payment.CreatedAt,
	}
}

func RefundToResponse(refund *entity.Refund) RefundResponse {
	return RefundResponse{
		ID:              refund.ID.String(),
		PaymentID:       refund.PaymentID.String(),
		GatewayRefundID: refund.GatewayRefundID,
		Amount:          refund.Amount,
		Status:          refund.Status,
		CreatedAt:       refund.CreatedAt,
	}
}
