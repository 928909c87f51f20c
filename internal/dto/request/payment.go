package request

type CreatePaymentOrderRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

type RefundPaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Amount    int64  `json:"amount" validate:"min=0"`
	Reason    string `json:"reason,omitempty"`
}
