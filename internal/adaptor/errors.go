package adaptor

import (
	"errors"
	"net/http"

	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service sentinels to HTTP responses. Anything not
// matched is an internal error and its detail stays out of the response.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrCouponNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidRequest):
		log.Warn(operation+" failed - invalid request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidState):
		log.Warn(operation+" failed - state conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrCapacityExceeded):
		log.Warn(operation+" failed - capacity exceeded", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidSignature):
		log.Warn(operation+" failed - invalid signature", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case isCouponError(err):
		log.Warn(operation+" failed - coupon rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrGatewayFailure):
		log.Error(operation+" failed - gateway error", zap.Error(err))
		utils.ResponseInternalError(w, "payment gateway unavailable")

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "internal server error")
	}
}

func isCouponError(err error) bool {
	for _, sentinel := range []error{
		usecase.ErrCouponInactive,
		usecase.ErrCouponNotStarted,
		usecase.ErrCouponExpired,
		usecase.ErrCouponExhausted,
		usecase.ErrCouponMinOrder,
		usecase.ErrCouponNotAvailable,
		usecase.ErrCouponUserLimit,
		usecase.ErrCouponMinParticipants,
		usecase.ErrCouponWrongProduct,
		usecase.ErrCouponFirstBooking,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
