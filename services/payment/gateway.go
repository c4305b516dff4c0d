package payment

import (
	"context"

	"portfolio/models"
)

// OrderGateway creates remote payment orders. Implementations must not retry
// order creation.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (*models.GatewayOrder, error)
}

// WebhookParser turns a signed gateway webhook into a payment, or nil for
// events that do not complete a payment.
type WebhookParser interface {
	ParseWebhook(payload []byte, signatureHeader string) (*models.GatewayPayment, error)
}
