package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	// FindByCode matches case-insensitively.
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*entity.Coupon, error)
	// IncrementUses bumps current_uses only while under max_uses; returns
	// false when the cap is already reached.
	IncrementUses(ctx context.Context, id uuid.UUID) (bool, error)
	// DecrementUses lowers current_uses, floored at zero in the update
	// predicate so concurrent decrement storms cannot drive it negative.
	DecrementUses(ctx context.Context, id uuid.UUID) error
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

const couponColumns = `id, code, description, discount_type, discount_value, per_person,
	max_discount_amount, min_order_amount, min_participants, visibility, allowed_roles,
	product_types, product_ids, first_booking_only, max_uses, max_uses_per_user,
	current_uses, valid_from, valid_until, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.PerPerson,
		&c.MaxDiscountAmount,
		&c.MinOrderAmount,
		&c.MinParticipants,
		&c.Visibility,
		&c.AllowedRoles,
		&c.ProductTypes,
		&c.ProductIDs,
		&c.FirstBookingOnly,
		&c.MaxUses,
		&c.MaxUsesPerUser,
		&c.CurrentUses,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, description, discount_type, discount_value, per_person,
			max_discount_amount, min_order_amount, min_participants, visibility, allowed_roles,
			product_types, product_ids, first_booking_only, max_uses, max_uses_per_user,
			current_uses, valid_from, valid_until, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.PerPerson,
		coupon.MaxDiscountAmount,
		coupon.MinOrderAmount,
		coupon.MinParticipants,
		coupon.Visibility,
		coupon.AllowedRoles,
		coupon.ProductTypes,
		coupon.ProductIDs,
		coupon.FirstBookingOnly,
		coupon.MaxUses,
		coupon.MaxUsesPerUser,
		coupon.CurrentUses,
		coupon.ValidFrom,
		coupon.ValidUntil,
		coupon.IsActive,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create coupon",
			zap.Error(err),
			zap.String("code", coupon.Code),
		)
		return fmt.Errorf("create coupon %s: %w", coupon.Code, err)
	}

	return nil
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by ID",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return nil, fmt.Errorf("find coupon by ID %s: %w", id.String(), err)
	}

	return coupon, nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE LOWER(code) = LOWER($1)`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}

	return coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, discount_type = $3, discount_value = $4, per_person = $5,
		    max_discount_amount = $6, min_order_amount = $7, min_participants = $8,
		    visibility = $9, allowed_roles = $10, product_types = $11, product_ids = $12,
		    first_booking_only = $13, max_uses = $14, max_uses_per_user = $15,
		    valid_from = $16, valid_until = $17, is_active = $18, updated_at = $19
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.PerPerson,
		coupon.MaxDiscountAmount,
		coupon.MinOrderAmount,
		coupon.MinParticipants,
		coupon.Visibility,
		coupon.AllowedRoles,
		coupon.ProductTypes,
		coupon.ProductIDs,
		coupon.FirstBookingOnly,
		coupon.MaxUses,
		coupon.MaxUsesPerUser,
		coupon.ValidFrom,
		coupon.ValidUntil,
		coupon.IsActive,
		coupon.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update coupon",
			zap.Error(err),
			zap.String("coupon_id", coupon.ID.String()),
		)
		return fmt.Errorf("update coupon %s: %w", coupon.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", coupon.ID.String())
	}

	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE coupons SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate coupon",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("deactivate coupon %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", id.String())
	}

	return nil
}

func (r *couponRepository) List(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list coupons", zap.Error(err))
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*entity.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, coupon)
	}

	return coupons, nil
}

func (r *couponRepository) IncrementUses(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET current_uses = current_uses + 1, updated_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR current_uses < max_uses)
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment coupon uses",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return false, fmt.Errorf("increment uses of coupon %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *couponRepository) DecrementUses(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET current_uses = current_uses - 1, updated_at = NOW()
		WHERE id = $1 AND current_uses > 0
	`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to decrement coupon uses",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("decrement uses of coupon %s: %w", id.String(), err)
	}

	return nil
}
