package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/payments/order - Open a gateway order for checkout
		r.Post("/api/payments/order", paymentHandler.CreateOrder)

		// POST /api/payments/verify - Checkout return path
		r.Post("/api/payments/verify", paymentHandler.Verify)

		// GET /api/bookings/{id}/payment - Payment state for a booking
		r.Get("/api/bookings/{id}/payment", paymentHandler.GetByBookingID)
	})

	r.Route("/api/admin/payments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole("admin", log))

		// POST /api/admin/payments/refund - Initiate a gateway refund
		r.Post("/refund", paymentHandler.Refund)
	})
}
