package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Traveller routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Request a new booking
		r.Post("/api/bookings", bookingHandler.Create)

		// GET /api/bookings - List own bookings
		r.Get("/api/bookings", bookingHandler.ListMine)

		// GET /api/bookings/{id} - Booking detail (owner, provider or admin)
		r.Get("/api/bookings/{id}", bookingHandler.GetByID)
	})

	// Provider routes
	r.Route("/api/provider/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireProvider(log))

		// GET /api/provider/bookings - Bookings touching own products
		r.Get("/", bookingHandler.ListByProvider)

		// POST /api/provider/bookings/{id}/confirm - Accept, open payment window
		r.Post("/{id}/confirm", bookingHandler.Confirm)

		// POST /api/provider/bookings/{id}/reject - Decline, release holds
		r.Post("/{id}/reject", bookingHandler.Reject)

		// POST /api/provider/bookings/{id}/complete - Service delivered, record payouts
		r.Post("/{id}/complete", bookingHandler.Complete)
	})
}
