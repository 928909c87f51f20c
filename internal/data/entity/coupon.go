package entity

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type CouponVisibility string

const (
	CouponVisibilityPublic  CouponVisibility = "public"
	CouponVisibilityPrivate CouponVisibility = "private"
)

type Coupon struct {
	Base
	Code              string           `db:"code"`
	Description       string           `db:"description"`
	DiscountType      DiscountType     `db:"discount_type"`
	DiscountValue     int64            `db:"discount_value"`
	PerPerson         bool             `db:"per_person"`
	MaxDiscountAmount *int64           `db:"max_discount_amount"`
	MinOrderAmount    int64            `db:"min_order_amount"`
	MinParticipants   int              `db:"min_participants"`
	Visibility        CouponVisibility `db:"visibility"`
	AllowedRoles      []string         `db:"allowed_roles"`
	ProductTypes      []string         `db:"product_types"`
	ProductIDs        []uuid.UUID      `db:"product_ids"`
	FirstBookingOnly  bool             `db:"first_booking_only"`
	MaxUses           *int             `db:"max_uses"`
	MaxUsesPerUser    *int             `db:"max_uses_per_user"`
	CurrentUses       int              `db:"current_uses"`
	ValidFrom         time.Time        `db:"valid_from"`
	ValidUntil        time.Time        `db:"valid_until"`
	IsActive          bool             `db:"is_active"`
}

// CouponUsage is one redemption. Uniqueness on booking_id prevents
// double-recording for the same booking under retry.
type CouponUsage struct {
	BaseSimple
	CouponID       uuid.UUID `db:"coupon_id"`
	UserID         uuid.UUID `db:"user_id"`
	BookingID      uuid.UUID `db:"booking_id"`
	DiscountAmount int64     `db:"discount_amount"`
}

// CouponAssignment grants a user access to a private coupon.
type CouponAssignment struct {
	BaseSimple
	CouponID uuid.UUID `db:"coupon_id"`
	UserID   uuid.UUID `db:"user_id"`
}
