package usecase

import (
	"time"

	"travel-booking/internal/data/entity"

	"github.com/google/uuid"
)

// CouponContext is everything a rule may look at when deciding whether a
// coupon applies to an order.
type CouponContext struct {
	UserID       uuid.UUID
	Roles        []string
	OrderAmount  int64
	Participants int
	ProductTypes []entity.ProductType
	ProductIDs   []uuid.UUID
}

// couponFacts carries the storage-derived inputs so the rules themselves
// stay pure and independently testable.
type couponFacts struct {
	now           time.Time
	userUses      int
	assigned      bool
	priorBookings int64
}

type couponRule struct {
	name  string
	check func(c *entity.Coupon, in CouponContext, facts couponFacts) error
}

// couponRules run in order and short-circuit on the first failure. New rules
// are additive: append and they participate.
var couponRules = []couponRule{
	{
		name: "active",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if !c.IsActive {
				return ErrCouponInactive
			}
			return nil
		},
	},
	{
		name: "validity_window",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if facts.now.Before(c.ValidFrom) {
				return ErrCouponNotStarted
			}
			if facts.now.After(c.ValidUntil) {
				return ErrCouponExpired
			}
			return nil
		},
	},
	{
		name: "total_use_cap",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
				return ErrCouponExhausted
			}
			return nil
		},
	},
	{
		name: "min_order_amount",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if in.OrderAmount < c.MinOrderAmount {
				return ErrCouponMinOrder
			}
			return nil
		},
	},
	{
		name: "access",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if c.Visibility == entity.CouponVisibilityPublic && len(c.AllowedRoles) == 0 {
				return nil
			}
			for _, allowed := range c.AllowedRoles {
				for _, role := range in.Roles {
					if role == allowed {
						return nil
					}
				}
			}
			if c.Visibility == entity.CouponVisibilityPrivate && facts.assigned {
				return nil
			}
			return ErrCouponNotAvailable
		},
	},
	{
		name: "per_user_cap",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if c.MaxUsesPerUser != nil && facts.userUses >= *c.MaxUsesPerUser {
				return ErrCouponUserLimit
			}
			return nil
		},
	},
	{
		name: "min_participants",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if c.MinParticipants > 0 && in.Participants < c.MinParticipants {
				return ErrCouponMinParticipants
			}
			return nil
		},
	},
	{
		name: "product_allow_list",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if len(c.ProductTypes) > 0 {
				if !anyTypeAllowed(c.ProductTypes, in.ProductTypes) {
					return ErrCouponWrongProduct
				}
			}
			if len(c.ProductIDs) > 0 {
				if !anyIDAllowed(c.ProductIDs, in.ProductIDs) {
					return ErrCouponWrongProduct
				}
			}
			return nil
		},
	},
	{
		name: "first_booking_only",
		check: func(c *entity.Coupon, in CouponContext, facts couponFacts) error {
			if c.FirstBookingOnly && facts.priorBookings > 0 {
				return ErrCouponFirstBooking
			}
			return nil
		},
	},
}

func anyTypeAllowed(allowed []string, got []entity.ProductType) bool {
	for _, t := range got {
		for _, a := range allowed {
			if string(t) == a {
				return true
			}
		}
	}
	return false
}

func anyIDAllowed(allowed []uuid.UUID, got []uuid.UUID) bool {
	for _, id := range got {
		for _, a := range allowed {
			if id == a {
				return true
			}
		}
	}
	return false
}

// computeDiscount applies the coupon's discount to an order amount using
// integer paise arithmetic. Percentage coupons floor once on the full order
// amount, or once per person and then multiply, so the two modes cannot
// drift apart through rounding order. The result is capped by
// MaxDiscountAmount, then by the order amount, then floored at zero.
func computeDiscount(c *entity.Coupon, orderAmount int64, participants int) int64 {
	var discount int64

	switch c.DiscountType {
	case entity.DiscountTypePercentage:
		if c.PerPerson && participants > 0 {
			perPerson := orderAmount / int64(participants)
			discount = (perPerson * c.DiscountValue / 100) * int64(participants)
		} else {
			discount = orderAmount * c.DiscountValue / 100
		}
	case entity.DiscountTypeFixed:
		discount = c.DiscountValue
	}

	if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
		discount = *c.MaxDiscountAmount
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}

	return discount
}
