package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// No session auth on webhook routes; the HMAC signature over the body is
// the authentication.
func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	r.Post("/webhook/razorpay", webhookHandler.Razorpay)
}
