package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"

	"travel-booking/pkg/utils"
)

// Client is the narrow payment-gateway surface the engine depends on. The
// gateway itself is a black box; everything else in the repo talks to this
// interface, never to the SDK.
type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	CreateRefund(ctx context.Context, gatewayPaymentID string, amount int64) (string, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

type razorpayClient struct {
	client        *razorpay.Client
	webhookSecret string
	keySecret     string
	log           *zap.Logger
}

func NewRazorpayClient(config utils.RazorpayConfig, log *zap.Logger) Client {
	return &razorpayClient{
		client:        razorpay.NewClient(config.KeyID, config.KeySecret),
		webhookSecret: config.WebhookSecret,
		keySecret:     config.KeySecret,
		log:           log.With(zap.String("gateway", "razorpay")),
	}
}

func (c *razorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		c.log.Error("Failed to create gateway order",
			zap.Error(err),
			zap.Int64("amount", amount),
			zap.String("receipt", receipt),
		)
		return "", fmt.Errorf("create gateway order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("create gateway order: missing order id in response")
	}

	return orderID, nil
}

func (c *razorpayClient) CreateRefund(ctx context.Context, gatewayPaymentID string, amount int64) (string, error) {
	refund, err := c.client.Payment.Refund(gatewayPaymentID, int(amount), nil, nil)
	if err != nil {
		c.log.Error("Failed to create gateway refund",
			zap.Error(err),
			zap.String("gateway_payment_id", gatewayPaymentID),
			zap.Int64("amount", amount),
		)
		return "", fmt.Errorf("create gateway refund for payment %s: %w", gatewayPaymentID, err)
	}

	refundID, ok := refund["id"].(string)
	if !ok {
		return "", fmt.Errorf("create gateway refund: missing refund id in response")
	}

	return refundID, nil
}

func (c *razorpayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return razorpayutils.VerifyPaymentSignature(params, signature, c.keySecret)
}

// VerifyWebhookSignature checks the HMAC over the raw request body, never a
// re-serialized object.
func (c *razorpayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	return razorpayutils.VerifyWebhookSignature(string(body), signature, c.webhookSecret)
}
