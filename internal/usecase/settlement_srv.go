package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementService consumes stored webhook events and applies their
// business effect. One event is one transaction: the effect and the
// processed flag commit together, so a crash between the two is impossible
// and a retry replays the whole event against current state.
type SettlementService interface {
	ProcessEvent(ctx context.Context, eventID uuid.UUID) error
}

type settlementService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewSettlementService(repo *repository.Repository, log *zap.Logger) SettlementService {
	return &settlementService{
		repo: repo,
		log:  log.With(zap.String("service", "settlement")),
		now:  time.Now,
	}
}

// gatewayPayload is the slice of the gateway's webhook envelope the engine
// cares about. Everything else in the payload is ignored but kept verbatim
// in the event row.
type gatewayPayload struct {
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity struct {
				ID        string `json:"id"`
				PaymentID string `json:"payment_id"`
				Amount    int64  `json:"amount"`
			} `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

func (s *settlementService) ProcessEvent(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.WebhookEvent.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load webhook event %s: %w", eventID.String(), err)
	}
	if event == nil {
		s.log.Warn("Settlement task references a missing event", zap.String("event_id", eventID.String()))
		return nil
	}
	if event.Processed {
		return nil
	}

	var payload gatewayPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload of event %s: %w", eventID.String(), err)
	}

	log := s.log.With(
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.String("provider_event_id", event.ProviderEventID),
	)

	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		switch event.EventType {
		case "payment.captured", "order.paid":
			err = s.applyCaptured(ctx, tx, log, &payload)
		case "payment.authorized":
			err = s.applyAuthorized(ctx, tx, log, &payload)
		case "payment.failed":
			err = s.applyFailed(ctx, tx, log, &payload)
		case "refund.processed", "payment.refunded":
			err = s.applyRefund(ctx, tx, log, &payload, entity.RefundStatusProcessed)
		case "refund.failed":
			err = s.applyRefund(ctx, tx, log, &payload, entity.RefundStatusFailed)
		default:
			log.Info("Ignoring unhandled event type")
		}
		if err != nil {
			return err
		}

		if err := tx.WebhookEvent.MarkProcessed(ctx, event.ID); err != nil {
			return fmt.Errorf("mark event processed: %w", err)
		}
		return nil
	})
}

func (s *settlementService) applyCaptured(ctx context.Context, tx *repository.Repository, log *zap.Logger, payload *gatewayPayload) error {
	pay := payload.Payload.Payment.Entity
	if pay.OrderID == "" {
		log.Warn("Capture event carries no order id")
		return nil
	}

	payment, err := tx.Payment.FindByGatewayOrderID(ctx, pay.OrderID)
	if err != nil {
		return fmt.Errorf("find payment for order %s: %w", pay.OrderID, err)
	}
	if payment == nil {
		// An order we never created, or a different environment's traffic.
		// Processed without effect; the raw payload stays for inspection.
		log.Warn("Capture event for unknown gateway order", zap.String("gateway_order_id", pay.OrderID))
		return nil
	}

	return applyPaymentCapture(ctx, tx, log, payment, pay.ID, s.now())
}

func (s *settlementService) applyAuthorized(ctx context.Context, tx *repository.Repository, log *zap.Logger, payload *gatewayPayload) error {
	pay := payload.Payload.Payment.Entity
	payment, err := tx.Payment.FindByGatewayOrderID(ctx, pay.OrderID)
	if err != nil {
		return fmt.Errorf("find payment for order %s: %w", pay.OrderID, err)
	}
	if payment == nil {
		log.Warn("Authorization event for unknown gateway order", zap.String("gateway_order_id", pay.OrderID))
		return nil
	}

	// Authorization precedes capture; never regress an already captured
	// payment on an out-of-order delivery.
	if payment.Status != entity.PaymentStatusCreated {
		return nil
	}
	if err := tx.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusAuthorized); err != nil {
		return fmt.Errorf("mark payment authorized: %w", err)
	}
	return nil
}

func (s *settlementService) applyFailed(ctx context.Context, tx *repository.Repository, log *zap.Logger, payload *gatewayPayload) error {
	pay := payload.Payload.Payment.Entity
	payment, err := tx.Payment.FindByGatewayOrderID(ctx, pay.OrderID)
	if err != nil {
		return fmt.Errorf("find payment for order %s: %w", pay.OrderID, err)
	}
	if payment == nil {
		log.Warn("Failure event for unknown gateway order", zap.String("gateway_order_id", pay.OrderID))
		return nil
	}
	if payment.Status == entity.PaymentStatusCaptured || payment.Status == entity.PaymentStatusRefunded {
		return nil
	}

	if err := tx.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}

	booking, err := tx.Booking.FindByIDForUpdate(ctx, payment.BookingID)
	if err != nil {
		return fmt.Errorf("lock booking %s: %w", payment.BookingID.String(), err)
	}
	if booking == nil || booking.Status != entity.BookingStatusAwaitingPayment {
		return nil
	}

	// The payment window keeps running: the traveller can retry until
	// expires_at, after which the sweep reclaims the inventory.
	booking.Status = entity.BookingStatusPaymentFailed
	booking.UpdatedAt = s.now()
	if err := tx.Booking.Update(ctx, booking); err != nil {
		return fmt.Errorf("mark booking payment_failed: %w", err)
	}

	log.Info("Payment failed, booking held for retry", zap.String("booking_id", booking.ID.String()))
	return nil
}

// applyRefund records one refund and re-derives the payment's refund state
// from the ledger sum, so replays and out-of-order deliveries converge on
// the same totals.
func (s *settlementService) applyRefund(ctx context.Context, tx *repository.Repository, log *zap.Logger, payload *gatewayPayload, status entity.RefundStatus) error {
	ref := payload.Payload.Refund.Entity
	if ref.ID == "" || ref.PaymentID == "" {
		log.Warn("Refund event missing refund or payment id")
		return nil
	}

	payment, err := tx.Payment.FindByGatewayPaymentID(ctx, ref.PaymentID)
	if err != nil {
		return fmt.Errorf("find payment %s: %w", ref.PaymentID, err)
	}
	if payment == nil {
		log.Warn("Refund event for unknown gateway payment", zap.String("gateway_payment_id", ref.PaymentID))
		return nil
	}

	refund := &entity.Refund{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		PaymentID:       payment.ID,
		GatewayRefundID: ref.ID,
		Amount:          ref.Amount,
		Status:          status,
	}
	if err := tx.Refund.Upsert(ctx, refund); err != nil {
		return fmt.Errorf("upsert refund %s: %w", ref.ID, err)
	}
	if status != entity.RefundStatusProcessed {
		return nil
	}

	total, err := tx.Refund.SumProcessedByPaymentID(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("sum refunds for payment %s: %w", payment.ID.String(), err)
	}
	if total < payment.Amount {
		log.Info("Partial refund recorded",
			zap.String("payment_id", payment.ID.String()),
			zap.Int64("refunded_total", total),
		)
		return nil
	}

	if payment.Status != entity.PaymentStatusRefunded {
		if err := tx.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusRefunded); err != nil {
			return fmt.Errorf("mark payment refunded: %w", err)
		}
	}

	booking, err := tx.Booking.FindByIDForUpdate(ctx, payment.BookingID)
	if err != nil {
		return fmt.Errorf("lock booking %s: %w", payment.BookingID.String(), err)
	}
	if booking == nil || booking.Status == entity.BookingStatusRefunded {
		return nil
	}

	// A fully refunded stay will not happen; the days go back on sale. Only
	// a confirmed booking still holds inventory here: an expired one released
	// its hold, a rejected one never reserved, and a completed one's dates
	// are past. The coupon stays consumed either way.
	if booking.Status == entity.BookingStatusConfirmed {
		items, err := tx.BookingItem.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("load booking items: %w", err)
		}
		if err := releaseBookingInventory(ctx, tx, items); err != nil {
			return err
		}
	}

	now := s.now()
	booking.Status = entity.BookingStatusRefunded
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	if err := tx.Booking.Update(ctx, booking); err != nil {
		return fmt.Errorf("mark booking refunded: %w", err)
	}

	log.Info("Full refund settled, booking refunded", zap.String("booking_id", booking.ID.String()))
	return nil
}
