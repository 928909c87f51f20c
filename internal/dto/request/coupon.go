package request

type CreateCouponRequest struct {
	Code              string   `json:"code" validate:"required,min=3,max=32"`
	Description       string   `json:"description,omitempty"`
	DiscountType      string   `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     int64    `json:"discount_value" validate:"required,gt=0"`
	PerPerson         bool     `json:"per_person"`
	MaxDiscountAmount *int64   `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	MinOrderAmount    int64    `json:"min_order_amount" validate:"min=0"`
	MinParticipants   int      `json:"min_participants" validate:"min=0"`
	Visibility        string   `json:"visibility" validate:"required,oneof=public private"`
	AllowedRoles      []string `json:"allowed_roles,omitempty"`
	ProductTypes      []string `json:"product_types,omitempty" validate:"omitempty,dive,oneof=tour homestay vehicle guide"`
	ProductIDs        []string `json:"product_ids,omitempty" validate:"omitempty,dive,uuid4"`
	FirstBookingOnly  bool     `json:"first_booking_only"`
	MaxUses           *int     `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	MaxUsesPerUser    *int     `json:"max_uses_per_user,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         string   `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidUntil        string   `json:"valid_until" validate:"required,datetime=2006-01-02"`
}

type UpdateCouponRequest struct {
	Description       *string `json:"description,omitempty"`
	DiscountValue     *int64  `json:"discount_value,omitempty" validate:"omitempty,gt=0"`
	MaxDiscountAmount *int64  `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	MinOrderAmount    *int64  `json:"min_order_amount,omitempty" validate:"omitempty,min=0"`
	MaxUses           *int    `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	MaxUsesPerUser    *int    `json:"max_uses_per_user,omitempty" validate:"omitempty,gt=0"`
	ValidUntil        *string `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

type ValidateCouponRequest struct {
	Code         string               `json:"code" validate:"required"`
	Items        []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	Participants int                  `json:"participants" validate:"min=0"`
}

type AssignCouponRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}
