package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type CouponResponse struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Description       string    `json:"description,omitempty"`
	DiscountType      string    `json:"discount_type"`
	DiscountValue     int64     `json:"discount_value"`
	PerPerson         bool      `json:"per_person"`
	MaxDiscountAmount *int64    `json:"max_discount_amount,omitempty"`
	MinOrderAmount    int64     `json:"min_order_amount"`
	MinParticipants   int       `json:"min_participants,omitempty"`
	Visibility        string    `json:"visibility"`
	AllowedRoles      []string  `json:"allowed_roles,omitempty"`
	ProductTypes      []string  `json:"product_types,omitempty"`
	FirstBookingOnly  bool      `json:"first_booking_only"`
	MaxUses           *int      `json:"max_uses,omitempty"`
	MaxUsesPerUser    *int      `json:"max_uses_per_user,omitempty"`
	CurrentUses       int       `json:"current_uses"`
	ValidFrom         time.Time `json:"valid_from"`
	ValidUntil        time.Time `json:"valid_until"`
	IsActive          bool      `json:"is_active"`
}

// CouponValidationResponse reports the outcome of a dry-run application.
// When Valid is false, Reason carries the first failed rule's message.
type CouponValidationResponse struct {
	Valid          bool   `json:"valid"`
	Code           string `json:"code"`
	OrderAmount    int64  `json:"order_amount"`
	DiscountAmount int64  `json:"discount_amount"`
	PayableAmount  int64  `json:"payable_amount"`
	Reason         string `json:"reason,omitempty"`
}

func CouponToResponse(coupon *entity.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:                coupon.ID.String(),
		Code:              coupon.Code,
		Description:       coupon.Description,
		DiscountType:      string(coupon.DiscountType),
		DiscountValue:     coupon.DiscountValue,
		PerPerson:         coupon.PerPerson,
		MaxDiscountAmount: coupon.MaxDiscountAmount,
		MinOrderAmount:    coupon.MinOrderAmount,
		MinParticipants:   coupon.MinParticipants,
		Visibility:        string(coupon.Visibility),
		AllowedRoles:      coupon.AllowedRoles,
		ProductTypes:      coupon.ProductTypes,
		FirstBookingOnly:  coupon.FirstBookingOnly,
		MaxUses:           coupon.MaxUses,
		MaxUsesPerUser:    coupon.MaxUsesPerUser,
		CurrentUses:       coupon.CurrentUses,
		ValidFrom:         coupon.ValidFrom,
		ValidUntil:        coupon.ValidUntil,
		IsActive:          coupon.IsActive,
	}
}

type CouponUsageResponse struct {
	ID             string    `json:"id"`
	CouponID       string    `json:"coupon_id"`
	UserID         string    `json:"user_id"`
	BookingID      string    `json:"booking_id"`
	DiscountAmount int64     `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

func CouponUsageToResponse(usage *entity.CouponUsage) *CouponUsageResponse {
	return &CouponUsageResponse{
		ID:             usage.ID.String(),
		CouponID:       usage.CouponID.String(),
		UserID:         usage.UserID.String(),
		BookingID:      usage.BookingID.String(),
		DiscountAmount: usage.DiscountAmount,
		CreatedAt:      usage.CreatedAt,
	}
}
