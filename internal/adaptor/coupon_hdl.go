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

type CouponHandler struct {
	service usecase.CouponService
	log     *zap.Logger
}

func NewCouponHandler(service usecase.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		log:     log.With(zap.String("handler", "coupon")),
	}
}

// Validate handles POST /api/coupons/validate (traveller dry-run)
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	roles, _ := utils.GetRolesFromContext(r.Context())

	var req request.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.DryRun(r.Context(), userID, roles, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "validate coupon")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Create handles POST /api/admin/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	coupon, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create coupon")
		return
	}

	utils.ResponseCreated(w, "success", coupon)
}

// Update handles PUT /api/admin/coupons/{id}
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	coupon, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update coupon")
		return
	}

	utils.ResponseSuccess(w, "success", coupon)
}

// GetByID handles GET /api/admin/coupons/{id}
func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get coupon")
		return
	}

	utils.ResponseSuccess(w, "success", coupon)
}

// List handles GET /api/admin/coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context(), paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list coupons")
		return
	}

	utils.ResponseSuccess(w, "success", coupons)
}

// Deactivate handles DELETE /api/admin/coupons/{id}
func (h *CouponHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "deactivate coupon")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Assign handles POST /api/admin/coupons/{id}/assignments
func (h *CouponHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.Assign(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "assign coupon")
		return
	}

	utils.ResponseCreated(w, "success", nil)
}

// ListUsages handles GET /api/admin/coupons/{id}/usages
func (h *CouponHandler) ListUsages(w http.ResponseWriter, r *http.Request) {
	usages, err := h.service.ListUsages(r.Context(), chi.URLParam(r, "id"), paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list coupon usages")
		return
	}

	utils.ResponseSuccess(w, "success", usages)
}

// Revoke handles DELETE /api/admin/coupons/{id}/assignments/{userID}
func (h *CouponHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Revoke(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		handleServiceError(w, h.log, err, "revoke coupon")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
