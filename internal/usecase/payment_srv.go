package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/gateway"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// CreateOrder opens a gateway order for a booking awaiting payment.
	// Calling it again for the same booking returns the existing open order
	// instead of creating a second one.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentOrderRequest) (*response.PaymentOrderResponse, error)

	// Verify is the checkout-return path: the client posts back the gateway
	// order id, payment id and signature. A valid signature finalizes the
	// capture; the webhook path finalizing first makes Verify a no-op.
	Verify(ctx context.Context, userID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentResponse, error)

	// Refund starts a gateway refund for a captured payment. The ledger
	// marks it processed only when the gateway's webhook confirms.
	Refund(ctx context.Context, req *request.RefundPaymentRequest) (*response.RefundResponse, error)

	GetByBookingID(ctx context.Context, userID uuid.UUID, roles []string, bookingID string) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway gateway.Client
	config  *utils.Config
	log     *zap.Logger
	now     func() time.Time
}

func NewPaymentService(repo *repository.Repository, gw gateway.Client, config *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gw,
		config:  config,
		log:     log.With(zap.String("service", "payment")),
		now:     time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreatePaymentOrderRequest) (*response.PaymentOrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidRequest)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", req.BookingID, err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if booking.UserID != userID {
		return nil, ErrForbidden
	}
	if booking.Status != entity.BookingStatusAwaitingPayment {
		return nil, ErrInvalidState
	}
	if booking.ExpiresAt != nil && !booking.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidState
	}

	payable := booking.TotalAmount - booking.DiscountAmount

	existing, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find payment for booking %s: %w", req.BookingID, err)
	}
	if existing != nil {
		if existing.Status == entity.PaymentStatusCreated {
			return s.orderResponse(existing), nil
		}
		return nil, ErrInvalidState
	}

	orderID, err := s.gateway.CreateOrder(ctx, payable, s.config.Razorpay.Currency, booking.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	now := s.now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:      booking.ID,
		GatewayOrderID: orderID,
		Amount:         payable,
		Currency:       s.config.Razorpay.Currency,
		Status:         entity.PaymentStatusCreated,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Gateway order created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("gateway_order_id", orderID),
		zap.Int64("amount", payable),
	)
	return s.orderResponse(payment), nil
}

func (s *paymentService) orderResponse(payment *entity.Payment) *response.PaymentOrderResponse {
	return &response.PaymentOrderResponse{
		PaymentID:      payment.ID.String(),
		GatewayOrderID: payment.GatewayOrderID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		KeyID:          s.config.Razorpay.KeyID,
	}
}

func (s *paymentService) Verify(ctx context.Context, userID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	payment, err := s.repo.Payment.FindByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("find payment for order %s: %w", req.GatewayOrderID, err)
	}
	if payment == nil {
		return nil, ErrNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", payment.BookingID.String(), err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, ErrForbidden
	}

	if !s.gateway.VerifyPaymentSignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		s.log.Warn("Checkout signature verification failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("gateway_payment_id", req.GatewayPaymentID),
		)
		return nil, ErrInvalidSignature
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		return applyPaymentCapture(ctx, tx, s.log, payment, req.GatewayPaymentID, s.now())
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Payment.FindByID(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("reload payment %s: %w", payment.ID.String(), err)
	}
	return response.PaymentToResponse(updated), nil
}

func (s *paymentService) Refund(ctx context.Context, req *request.RefundPaymentRequest) (*response.RefundResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidRequest)
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find payment for booking %s: %w", req.BookingID, err)
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	if payment.Status != entity.PaymentStatusCaptured && payment.Status != entity.PaymentStatusRefunded {
		return nil, ErrInvalidState
	}
	if payment.GatewayPaymentID == nil {
		return nil, ErrInvalidState
	}

	// Initiated refunds count against the refundable bound even before the
	// gateway confirms them, or a retry could over-refund.
	refunded, err := s.repo.Refund.SumNonFailedByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("sum refunds for payment %s: %w", payment.ID.String(), err)
	}

	amount := req.Amount
	if amount == 0 {
		amount = payment.Amount - refunded
	}
	if amount <= 0 || amount > payment.Amount-refunded {
		return nil, fmt.Errorf("%w: refund amount %d exceeds refundable %d", ErrInvalidRequest, amount, payment.Amount-refunded)
	}

	refundID, err := s.gateway.CreateRefund(ctx, *payment.GatewayPaymentID, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	refund := &entity.Refund{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		PaymentID:       payment.ID,
		GatewayRefundID: refundID,
		Amount:          amount,
		Status:          entity.RefundStatusCreated,
	}
	if err := s.repo.Refund.Upsert(ctx, refund); err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}

	s.log.Info("Refund initiated",
		zap.String("booking_id", req.BookingID),
		zap.String("gateway_refund_id", refundID),
		zap.Int64("amount", amount),
		zap.String("reason", req.Reason),
	)
	res := response.RefundToResponse(refund)
	return &res, nil
}

func (s *paymentService) GetByBookingID(ctx context.Context, userID uuid.UUID, roles []string, bookingID string) (*response.PaymentResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidRequest)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if booking.UserID != userID && !hasRole(roles, "admin") {
		return nil, ErrForbidden
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find payment for booking %s: %w", bookingID, err)
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return response.PaymentToResponse(payment), nil
}
