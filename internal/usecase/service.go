package usecase

import (
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/gateway"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking    BookingService
	Coupon     CouponService
	Payment    PaymentService
	Webhook    WebhookService
	Settlement SettlementService
	Payout     PayoutService
}

func NewService(repo *repository.Repository, gw gateway.Client, publisher SettlementPublisher, config *utils.Config, log *zap.Logger) *Service {
	coupon := NewCouponService(repo, log)
	return &Service{
		Booking:    NewBookingService(repo, coupon, config, log),
		Coupon:     coupon,
		Payment:    NewPaymentService(repo, gw, config, log),
		Webhook:    NewWebhookService(repo, gw, publisher, log),
		Settlement: NewSettlementService(repo, log),
		Payout:     NewPayoutService(repo, log),
	}
}
