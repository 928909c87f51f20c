package adaptor

import (
	"io"
	"net/http"

	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	razorpaySignatureHeader = "X-Razorpay-Signature"
	razorpayEventIDHeader   = "X-Razorpay-Event-Id"
	providerRazorpay        = "razorpay"

	maxWebhookBody = 1 << 20
)

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// Razorpay handles POST /webhooks/razorpay. The signature covers the raw
// request bytes, so the body is read before any decoding.
func (h *WebhookHandler) Razorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "unreadable body", nil)
		return
	}

	ack, err := h.service.Ingest(
		r.Context(),
		providerRazorpay,
		r.Header.Get(razorpayEventIDHeader),
		body,
		r.Header.Get(razorpaySignatureHeader),
	)
	if err != nil {
		handleServiceError(w, h.log, err, "ingest webhook")
		return
	}

	utils.ResponseSuccess(w, "success", ack)
}
