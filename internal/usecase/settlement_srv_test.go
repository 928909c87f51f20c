package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestSettlementService(repo *repository.Repository, now time.Time) *settlementService {
	svc := NewSettlementService(repo, zap.NewNop()).(*settlementService)
	svc.now = func() time.Time { return now }
	return svc
}

func captureEvent(eventID uuid.UUID, eventType, orderID, paymentID string) *entity.WebhookEvent {
	payload := fmt.Sprintf(
		`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":5000}}}}`,
		eventType, paymentID, orderID,
	)
	return &entity.WebhookEvent{
		BaseSimple:      entity.BaseSimple{ID: eventID},
		Provider:        "razorpay",
		ProviderEventID: "evt_" + eventID.String()[:8],
		EventType:       eventType,
		Payload:         []byte(payload),
	}
}

func refundEvent(eventID uuid.UUID, eventType, refundID, gatewayPaymentID string, amount int64) *entity.WebhookEvent {
	payload := fmt.Sprintf(
		`{"event":%q,"payload":{"refund":{"entity":{"id":%q,"payment_id":%q,"amount":%d}}}}`,
		eventType, refundID, gatewayPaymentID, amount,
	)
	return &entity.WebhookEvent{
		BaseSimple:      entity.BaseSimple{ID: eventID},
		Provider:        "razorpay",
		ProviderEventID: "evt_" + eventID.String()[:8],
		EventType:       eventType,
		Payload:         []byte(payload),
	}
}

func TestProcessEventAlreadyProcessedIsNoop(t *testing.T) {
	repo, f := newFakeRepository()
	eventID := uuid.New()

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		event := captureEvent(eventID, "payment.captured", "order_1", "pay_1")
		event.Processed = true
		return event, nil
	}

	svc := newTestSettlementService(repo, time.Now())
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	// No payment lookups, no MarkProcessed: the nil Fn fields would panic.
}

func TestProcessEventCaptureConfirmsBooking(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	paymentID := uuid.New()
	bookingID := uuid.New()

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return captureEvent(eventID, "payment.captured", "order_1", "pay_1"), nil
	}
	f.Payment.FindByGatewayOrderIDFn = func(ctx context.Context, orderID string) (*entity.Payment, error) {
		return &entity.Payment{
			Base:           entity.Base{ID: paymentID},
			BookingID:      bookingID,
			GatewayOrderID: orderID,
			Amount:         5000,
			Status:         entity.PaymentStatusCreated,
		}, nil
	}

	captured := false
	f.Payment.MarkCapturedFn = func(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
		if gatewayPaymentID != "pay_1" {
			t.Fatalf("gateway payment id = %s, want pay_1", gatewayPaymentID)
		}
		captured = true
		return nil
	}
	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{
			Base:        entity.Base{ID: bookingID},
			Status:      entity.BookingStatusAwaitingPayment,
			TotalAmount: 5000,
		}, nil
	}

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}

	processed := false
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
		processed = true
		return nil
	}

	svc := newTestSettlementService(repo, now)
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	if !captured || !processed {
		t.Fatalf("captured=%v processed=%v, want both", captured, processed)
	}
	if updated.Status != entity.BookingStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}
	if updated.PaidAmount != 5000 {
		t.Fatalf("paid = %d, want 5000", updated.PaidAmount)
	}
	if updated.ExpiresAt != nil {
		t.Fatal("expires_at should be cleared on confirmation")
	}
}

func TestProcessEventCaptureAfterExpiryLeavesBooking(t *testing.T) {
	repo, f := newFakeRepository()
	eventID := uuid.New()
	bookingID := uuid.New()

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return captureEvent(eventID, "payment.captured", "order_1", "pay_1"), nil
	}
	f.Payment.FindByGatewayOrderIDFn = func(ctx context.Context, orderID string) (*entity.Payment, error) {
		return &entity.Payment{
			Base:      entity.Base{ID: uuid.New()},
			BookingID: bookingID,
			Status:    entity.PaymentStatusCreated,
		}, nil
	}
	f.Payment.MarkCapturedFn = func(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
		return nil
	}
	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: bookingID}, Status: entity.BookingStatusExpired}, nil
	}

	processed := false
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
		processed = true
		return nil
	}

	svc := newTestSettlementService(repo, time.Now())
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if !processed {
		t.Fatal("event not marked processed")
	}
	// Booking.Update staying nil-func proves the expired booking was left
	// untouched; a call would have panicked.
}

func TestProcessEventUnknownTypeMarksProcessed(t *testing.T) {
	repo, f := newFakeRepository()
	eventID := uuid.New()

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return &entity.WebhookEvent{
			BaseSimple: entity.BaseSimple{ID: eventID},
			EventType:  "invoice.paid",
			Payload:    []byte(`{"event":"invoice.paid","payload":{}}`),
		}, nil
	}

	processed := false
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
		processed = true
		return nil
	}

	svc := newTestSettlementService(repo, time.Now())
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if !processed {
		t.Fatal("unknown event type should still be marked processed")
	}
}

func TestProcessEventUnknownOrderMarksProcessed(t *testing.T) {
	repo, f := newFakeRepository()
	eventID := uuid.New()

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return captureEvent(eventID, "payment.captured", "order_unknown", "pay_1"), nil
	}
	f.Payment.FindByGatewayOrderIDFn = func(ctx context.Context, orderID string) (*entity.Payment, error) {
		return nil, nil
	}

	processed := false
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
		processed = true
		return nil
	}

	svc := newTestSettlementService(repo, time.Now())
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if !processed {
		t.Fatal("event for unknown order should be marked processed")
	}
}

func TestProcessEventPaymentFailedHoldsBooking(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	paymentID := uuid.New()
	bookingID := uuid.New()
	deadline := now.Add(20 * time.Minute)

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return captureEvent(eventID, "payment.failed", "order_1", "pay_1"), nil
	}
	f.Payment.FindByGatewayOrderIDFn = func(ctx context.Context, orderID string) (*entity.Payment, error) {
		return &entity.Payment{
			Base:      entity.Base{ID: paymentID},
			BookingID: bookingID,
			Status:    entity.PaymentStatusCreated,
		}, nil
	}
	f.Payment.UpdateStatusFn = func(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
		if status != entity.PaymentStatusFailed {
			t.Fatalf("payment status = %s, want failed", status)
		}
		return nil
	}
	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{
			Base:      entity.Base{ID: bookingID},
			Status:    entity.BookingStatusAwaitingPayment,
			ExpiresAt: &deadline,
		}, nil
	}

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	svc := newTestSettlementService(repo, now)
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	if updated.Status != entity.BookingStatusPaymentFailed {
		t.Fatalf("status = %s, want payment_failed", updated.Status)
	}
	if updated.ExpiresAt == nil || !updated.ExpiresAt.Equal(deadline) {
		t.Fatal("payment window deadline must survive a failed attempt")
	}
}

func TestProcessEventPartialRefundKeepsBooking(t *testing.T) {
	repo, f := newFakeRepository()
	eventID := uuid.New()
	paymentID := uuid.New()
	gatewayPaymentID := "pay_1"

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return refundEvent(eventID, "refund.processed", "rfnd_1", gatewayPaymentID, 2000), nil
	}
	f.Payment.FindByGatewayPaymentIDFn = func(ctx context.Context, id string) (*entity.Payment, error) {
		return &entity.Payment{
			Base:             entity.Base{ID: paymentID},
			GatewayPaymentID: &gatewayPaymentID,
			Amount:           5000,
			Status:           entity.PaymentStatusCaptured,
		}, nil
	}

	var upserted *entity.Refund
	f.Refund.UpsertFn = func(ctx context.Context, refund *entity.Refund) error {
		upserted = refund
		return nil
	}
	f.Refund.SumProcessedByPaymentIDFn = func(ctx context.Context, id uuid.UUID) (int64, error) {
		return 2000, nil
	}
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	svc := newTestSettlementService(repo, time.Now())
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	if upserted == nil || upserted.GatewayRefundID != "rfnd_1" || upserted.Amount != 2000 {
		t.Fatalf("refund row = %+v", upserted)
	}
	// Payment.UpdateStatus and Booking lookups staying nil-func proves the
	// partial refund changed nothing else.
}

func TestProcessEventFullRefundFlipsBooking(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	paymentID := uuid.New()
	bookingID := uuid.New()
	gatewayPaymentID := "pay_1"

	f.WebhookEvent.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
		return refundEvent(eventID, "refund.processed", "rfnd_2", gatewayPaymentID, 3000), nil
	}
	f.Payment.FindByGatewayPaymentIDFn = func(ctx context.Context, id string) (*entity.Payment, error) {
		return &entity.Payment{
			Base:             entity.Base{ID: paymentID},
			BookingID:        bookingID,
			GatewayPaymentID: &gatewayPaymentID,
			Amount:           5000,
			Status:           entity.PaymentStatusCaptured,
		}, nil
	}
	f.Refund.UpsertFn = func(ctx context.Context, refund *entity.Refund) error { return nil }

	// The ledger, not the event, decides: prior refunds bring the total to
	// the full amount.
	f.Refund.SumProcessedByPaymentIDFn = func(ctx context.Context, id uuid.UUID) (int64, error) {
		return 5000, nil
	}
	f.Payment.UpdateStatusFn = func(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
		if status != entity.PaymentStatusRefunded {
			t.Fatalf("payment status = %s, want refunded", status)
		}
		return nil
	}
	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: bookingID}, Status: entity.BookingStatusConfirmed}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			ProductID: uuid.New(),
			StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Quantity:  1,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: id}, DateRanged: true}, nil
	}

	released := false
	f.Availability.ReleaseFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
		released = true
		return nil
	}

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}
	f.WebhookEvent.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	svc := newTestSettlementService(repo, now)
	if err := svc.ProcessEvent(context.Background(), eventID); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	if !released {
		t.Fatal("inventory not released on full refund")
	}
	if updated.Status != entity.BookingStatusRefunded {
		t.Fatalf("status = %s, want refunded", updated.Status)
	}
}
