package usecase

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrGatewayFailure   = errors.New("payment gateway failure")

	// Coupon rule failures. Each rule reports its own reason. Unknown codes
	// and private-coupon access failures share ErrCouponNotAvailable so a
	// probing caller cannot distinguish "exists but not yours" from "does
	// not exist". ErrCouponNotFound is for admin lookups by id only.
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrCouponInactive        = errors.New("coupon is not active")
	ErrCouponNotStarted      = errors.New("coupon is not valid yet")
	ErrCouponExpired         = errors.New("coupon has expired")
	ErrCouponExhausted       = errors.New("coupon usage limit reached")
	ErrCouponMinOrder        = errors.New("order amount below coupon minimum")
	ErrCouponNotAvailable    = errors.New("coupon is not available to you")
	ErrCouponUserLimit       = errors.New("coupon usage limit for this user reached")
	ErrCouponMinParticipants = errors.New("not enough participants for this coupon")
	ErrCouponWrongProduct    = errors.New("coupon does not apply to these products")
	ErrCouponFirstBooking    = errors.New("coupon is only valid on a first booking")
)

// isCouponRuleError distinguishes "the coupon does not apply" from real
// failures, so a dry-run can report the former as a normal outcome.
func isCouponRuleError(err error) bool {
	for _, rule := range []error{
		ErrCouponInactive,
		ErrCouponNotStarted,
		ErrCouponExpired,
		ErrCouponExhausted,
		ErrCouponMinOrder,
		ErrCouponNotAvailable,
		ErrCouponUserLimit,
		ErrCouponMinParticipants,
		ErrCouponWrongProduct,
		ErrCouponFirstBooking,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}
