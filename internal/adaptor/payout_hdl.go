package adaptor

import (
	"encoding/json"
	"net/http"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PayoutHandler struct {
	service usecase.PayoutService
	log     *zap.Logger
}

func NewPayoutHandler(service usecase.PayoutService, log *zap.Logger) *PayoutHandler {
	return &PayoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "payout")),
	}
}

// ListMine handles GET /api/provider/payouts
func (h *PayoutHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetProviderIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Provider account required")
		return
	}

	payouts, err := h.service.ListForProvider(r.Context(), providerID, paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list provider payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}

// ListAll handles GET /api/admin/payouts
func (h *PayoutHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.service.ListAll(r.Context(), paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}

// Mark handles POST /api/admin/payouts/{id}/mark
func (h *PayoutHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req request.MarkPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payout, err := h.service.Mark(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "mark payout")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}
