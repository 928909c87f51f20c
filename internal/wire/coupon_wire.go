package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCoupon(
	r chi.Router,
	couponHandler *adaptor.CouponHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/coupons/validate - Dry-run a coupon against a cart
		r.Post("/api/coupons/validate", couponHandler.Validate)
	})

	r.Route("/api/admin/coupons", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole("admin", log))

		r.Post("/", couponHandler.Create)
		r.Get("/", couponHandler.List)
		r.Get("/{id}", couponHandler.GetByID)
		r.Put("/{id}", couponHandler.Update)
		r.Delete("/{id}", couponHandler.Deactivate)
		r.Get("/{id}/usages", couponHandler.ListUsages)

		// Private coupon grants
		r.Post("/{id}/assignments", couponHandler.Assign)
		r.Delete("/{id}/assignments/{userID}", couponHandler.Revoke)
	})
}
