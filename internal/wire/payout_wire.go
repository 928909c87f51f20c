package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayout(
	r chi.Router,
	payoutHandler *adaptor.PayoutHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireProvider(log))

		// GET /api/provider/payouts - Own payout ledger
		r.Get("/api/provider/payouts", payoutHandler.ListMine)
	})

	r.Route("/api/admin/payouts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole("admin", log))

		r.Get("/", payoutHandler.ListAll)

		// POST /api/admin/payouts/{id}/mark - Record transfer outcome
		r.Post("/{id}/mark", payoutHandler.Mark)
	})
}
