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

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Create handles POST /api/bookings (traveller)
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	roles, _ := utils.GetRolesFromContext(r.Context())

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Create(r.Context(), userID, roles, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	roles, _ := utils.GetRolesFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), userID, roles, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListMine handles GET /api/bookings (traveller)
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListMine(r.Context(), userID, paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ListByProvider handles GET /api/provider/bookings
func (h *BookingHandler) ListByProvider(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetProviderIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Provider account required")
		return
	}

	bookings, err := h.service.ListByProvider(r.Context(), providerID, paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list provider bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// Confirm handles POST /api/provider/bookings/{id}/confirm
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetProviderIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Provider account required")
		return
	}

	booking, err := h.service.Confirm(r.Context(), providerID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Reject handles POST /api/provider/bookings/{id}/reject
func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetProviderIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Provider account required")
		return
	}

	var req request.RejectBookingRequest
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.service.Reject(r.Context(), providerID, chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Complete handles POST /api/provider/bookings/{id}/complete
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	isAdmin := utils.HasRole(r.Context(), "admin")
	providerID, ok := utils.GetProviderIDFromContext(r.Context())
	if !ok && !isAdmin {
		utils.ResponseForbidden(w, "Provider account required")
		return
	}

	booking, err := h.service.Complete(r.Context(), providerID, isAdmin, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func paginationFrom(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
