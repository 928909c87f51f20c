package adaptor

import (
	"travel-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Payment *PaymentHandler
	Coupon  *CouponHandler
	Payout  *PayoutHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Coupon:  NewCouponHandler(service.Coupon, log),
		Payout:  NewPayoutHandler(service.Payout, log),
		Webhook: NewWebhookHandler(service.Webhook, log),
	}
}
