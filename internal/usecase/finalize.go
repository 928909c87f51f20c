package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/metrics"

	"go.uber.org/zap"
)

// applyPaymentCapture finishes a capture inside the caller's transaction:
// mark the payment captured, then flip the booking awaiting_payment ->
// confirmed. Both the checkout verify path and the webhook settlement path
// funnel through here so a capture observed twice lands in the same place.
//
// If the booking already left awaiting_payment (the payment window expired
// while the capture was in flight) the payment is still marked captured but
// the booking is left alone and the case is surfaced for reconciliation.
// Flipping an expired booking back would double-sell inventory that the
// expiry sweep already released.
func applyPaymentCapture(ctx context.Context, tx *repository.Repository, log *zap.Logger, payment *entity.Payment, gatewayPaymentID string, now time.Time) error {
	if payment.Status != entity.PaymentStatusCaptured {
		if err := tx.Payment.MarkCaptured(ctx, payment.ID, gatewayPaymentID); err != nil {
			return fmt.Errorf("mark payment captured: %w", err)
		}
	}

	booking, err := tx.Booking.FindByIDForUpdate(ctx, payment.BookingID)
	if err != nil {
		return fmt.Errorf("lock booking %s: %w", payment.BookingID.String(), err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found for payment %s", payment.BookingID.String(), payment.ID.String())
	}

	switch booking.Status {
	case entity.BookingStatusConfirmed, entity.BookingStatusCompleted:
		// Already finalized by the other path.
		return nil
	case entity.BookingStatusAwaitingPayment, entity.BookingStatusPaymentFailed:
		confirmedAt := now
		booking.Status = entity.BookingStatusConfirmed
		booking.PaidAmount = payment.Amount
		booking.ConfirmedAt = &confirmedAt
		booking.ExpiresAt = nil
		booking.UpdatedAt = now
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("confirm booking %s: %w", booking.ID.String(), err)
		}
		return nil
	default:
		metrics.ReconciliationCases.Inc()
		log.Warn("Capture arrived for a booking no longer awaiting payment",
			zap.String("booking_id", booking.ID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return nil
	}
}

// releaseBookingHolds returns everything a booking was holding: per-day
// inventory for each date-ranged item, the coupon usage row, and the
// coupon's consumed use. Runs inside the caller's transaction.
func releaseBookingHolds(ctx context.Context, tx *repository.Repository, log *zap.Logger, booking *entity.Booking) error {
	items, err := tx.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("load booking items: %w", err)
	}

	if err := releaseBookingInventory(ctx, tx, items); err != nil {
		return err
	}
	if err := releaseCouponHold(ctx, tx, booking); err != nil {
		return err
	}

	log.Debug("Released booking holds",
		zap.String("booking_id", booking.ID.String()),
		zap.Int("items", len(items)),
	)
	return nil
}

// releaseBookingInventory reverses the confirm-time reserve. Only date-ranged
// products carry ledger rows, so the rest are skipped.
func releaseBookingInventory(ctx context.Context, tx *repository.Repository, items []*entity.BookingItem) error {
	for _, item := range items {
		product, err := tx.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("find product %s: %w", item.ProductID.String(), err)
		}
		if product == nil || !product.DateRanged {
			continue
		}
		if err := tx.Availability.Release(ctx, item.ProductID, item.StartDate, item.EndDate, item.Quantity); err != nil {
			return fmt.Errorf("release inventory for item %s: %w", item.ID.String(), err)
		}
	}
	return nil
}

func releaseCouponHold(ctx context.Context, tx *repository.Repository, booking *entity.Booking) error {
	if booking.CouponID == nil {
		return nil
	}

	deleted, err := tx.CouponUsage.DeleteByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("release coupon usage: %w", err)
	}
	if deleted {
		if err := tx.Coupon.DecrementUses(ctx, *booking.CouponID); err != nil {
			return fmt.Errorf("decrement coupon uses: %w", err)
		}
	}
	return nil
}
