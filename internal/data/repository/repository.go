package repository

import (
	"context"
	"fmt"

	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session          SessionRepository
	Product          ProductRepository
	Booking          BookingRepository
	BookingItem      BookingItemRepository
	Availability     AvailabilityRepository
	Payment          PaymentRepository
	Refund           RefundRepository
	WebhookEvent     WebhookEventRepository
	Coupon           CouponRepository
	CouponUsage      CouponUsageRepository
	CouponAssignment CouponAssignmentRepository
	Payout           PayoutRepository

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session:          NewSessionRepository(db, log),
		Product:          NewProductRepository(db, log),
		Booking:          NewBookingRepository(db, log),
		BookingItem:      NewBookingItemRepository(db, log),
		Availability:     NewAvailabilityRepository(db, log),
		Payment:          NewPaymentRepository(db, log),
		Refund:           NewRefundRepository(db, log),
		WebhookEvent:     NewWebhookEventRepository(db, log),
		Coupon:           NewCouponRepository(db, log),
		CouponUsage:      NewCouponUsageRepository(db, log),
		CouponAssignment: NewCouponAssignmentRepository(db, log),
		Payout:           NewPayoutRepository(db, log),

		db:  db,
		log: log,
	}
}

// WithTx runs fn with a repository set bound to a single transaction.
// fn returning an error rolls everything back; multi-row mutations that must
// commit or fail together (inventory reserve/release, settlement effects)
// always go through here.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	// A repository assembled field by field (fakes in tests) has no pool;
	// run the callback against the same set.
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := NewRepository(database.WrapTx(tx), r.log)

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("Transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
