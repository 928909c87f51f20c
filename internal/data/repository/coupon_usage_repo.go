package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponUsageRepository interface {
	// Insert records one redemption. Returns inserted=false when a usage row
	// for the booking already exists (unique constraint on booking_id).
	Insert(ctx context.Context, usage *entity.CouponUsage) (bool, error)
	CountByCouponAndUser(ctx context.Context, couponID, userID uuid.UUID) (int, error)
	FindByCouponID(ctx context.Context, couponID uuid.UUID, limit, offset int) ([]*entity.CouponUsage, error)
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type couponUsageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponUsageRepository(db database.PgxIface, log *zap.Logger) CouponUsageRepository {
	return &couponUsageRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon_usage")),
	}
}

func (r *couponUsageRepository) Insert(ctx context.Context, usage *entity.CouponUsage) (bool, error) {
	query := `
		INSERT INTO coupon_usages (id, coupon_id, user_id, booking_id, discount_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		usage.ID,
		usage.CouponID,
		usage.UserID,
		usage.BookingID,
		usage.DiscountAmount,
		usage.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert coupon usage",
			zap.Error(err),
			zap.String("coupon_id", usage.CouponID.String()),
			zap.String("booking_id", usage.BookingID.String()),
		)
		return false, fmt.Errorf("insert coupon usage for booking %s: %w", usage.BookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *couponUsageRepository) CountByCouponAndUser(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	var count int
	err := r.db.QueryRow(ctx, query, couponID, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count coupon usages",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count usages of coupon %s by user %s: %w", couponID.String(), userID.String(), err)
	}

	return count, nil
}

func (r *couponUsageRepository) FindByCouponID(ctx context.Context, couponID uuid.UUID, limit, offset int) ([]*entity.CouponUsage, error) {
	query := `
		SELECT id, coupon_id, user_id, booking_id, discount_amount, created_at
		FROM coupon_usages
		WHERE coupon_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, couponID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find coupon usages",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
		)
		return nil, fmt.Errorf("find usages of coupon %s: %w", couponID.String(), err)
	}
	defer rows.Close()

	var usages []*entity.CouponUsage
	for rows.Next() {
		var usage entity.CouponUsage
		err := rows.Scan(
			&usage.ID,
			&usage.CouponID,
			&usage.UserID,
			&usage.BookingID,
			&usage.DiscountAmount,
			&usage.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan coupon usage row: %w", err)
		}
		usages = append(usages, &usage)
	}

	return usages, nil
}

func (r *couponUsageRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `DELETE FROM coupon_usages WHERE booking_id = $1`

	result, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to delete coupon usage",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("delete coupon usage for booking %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
