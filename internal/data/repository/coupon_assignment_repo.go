package repository

import (
	"context"
	"fmt"
	"time"

	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponAssignmentRepository interface {
	Assign(ctx context.Context, couponID, userID uuid.UUID) error
	Revoke(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
	Exists(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
}

type couponAssignmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponAssignmentRepository(db database.PgxIface, log *zap.Logger) CouponAssignmentRepository {
	return &couponAssignmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon_assignment")),
	}
}

func (r *couponAssignmentRepository) Assign(ctx context.Context, couponID, userID uuid.UUID) error {
	query := `
		INSERT INTO coupon_assignments (id, coupon_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (coupon_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, uuid.New(), couponID, userID, time.Now())
	if err != nil {
		r.log.Error("Failed to assign coupon",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("assign coupon %s to user %s: %w", couponID.String(), userID.String(), err)
	}

	return nil
}

func (r *couponAssignmentRepository) Revoke(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM coupon_assignments WHERE coupon_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, couponID, userID)
	if err != nil {
		r.log.Error("Failed to revoke coupon assignment",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("revoke coupon %s from user %s: %w", couponID.String(), userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *couponAssignmentRepository) Exists(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM coupon_assignments WHERE coupon_id = $1 AND user_id = $2)`

	var exists bool
	err := r.db.QueryRow(ctx, query, couponID, userID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check coupon assignment",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check coupon %s assignment for user %s: %w", couponID.String(), userID.String(), err)
	}

	return exists, nil
}
