package request

type BookingItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	Items        []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	Participants int                  `json:"participants" validate:"min=0"`
	CouponCode   string               `json:"coupon_code,omitempty"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}
