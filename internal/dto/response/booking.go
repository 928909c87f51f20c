package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type BookingItemResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductType    string `json:"product_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	TotalPrice     int64  `json:"total_price"`
	PermitRequired bool   `json:"permit_required"`
}

type BookingResponse struct {
	ID             string                `json:"id"`
	Reference      string                `json:"reference"`
	UserID         string                `json:"user_id"`
	Status         entity.BookingStatus  `json:"status"`
	TotalAmount    int64                 `json:"total_amount"`
	DiscountAmount int64                 `json:"discount_amount"`
	PayableAmount  int64                 `json:"payable_amount"`
	PaidAmount     int64                 `json:"paid_amount"`
	CouponID       *string               `json:"coupon_id,omitempty"`
	Items          []BookingItemResponse `json:"items,omitempty"`
	ConfirmedAt    *time.Time            `json:"confirmed_at,omitempty"`
	ExpiresAt      *time.Time            `json:"expires_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

func BookingItemToResponse(item *entity.BookingItem) BookingItemResponse {
	return BookingItemResponse{
		ID:             item.ID.String(),
		ProductID:      item.ProductID.String(),
		ProductType:    string(item.ProductType),
		StartDate:      item.StartDate.Format("2006-01-02"),
		EndDate:        item.EndDate.Format("2006-01-02"),
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		TotalPrice:     item.TotalPrice,
		PermitRequired: item.PermitRequired,
	}
}

func BookingToResponse(booking *entity.Booking, items []*entity.BookingItem) *BookingResponse {
	res := &BookingResponse{
		ID:             booking.ID.String(),
		Reference:      booking.Reference,
		UserID:         booking.UserID.String(),
		Status:         booking.Status,
		TotalAmount:    booking.TotalAmount,
		DiscountAmount: booking.DiscountAmount,
		PayableAmount:  booking.TotalAmount - booking.DiscountAmount,
		PaidAmount:     booking.PaidAmount,
		ConfirmedAt:    booking.ConfirmedAt,
		ExpiresAt:      booking.ExpiresAt,
		CreatedAt:      booking.CreatedAt,
	}
	if booking.CouponID != nil {
		couponID := booking.CouponID.String()
		res.CouponID = &couponID
	}
	for _, item := range items {
		res.Items = append(res.Items, BookingItemToResponse(item))
	}
	return res
}
