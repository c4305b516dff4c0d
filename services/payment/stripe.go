package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const eventPaymentIntentSucceeded = "payment_intent.succeeded"

// StripeGateway creates payment intents as gateway orders.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewStripeGateway builds a Stripe client that never retries and bounds every
// call by timeout.
func NewStripeGateway(key, webhookSecret string, timeout time.Duration, logger *zap.Logger) *StripeGateway {
	httpClient := &http.Client{Timeout: timeout}
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	}
	return &StripeGateway{
		api:           client.New(key, backends),
		webhookSecret: webhookSecret,
		timeout:       timeout,
		logger:        logger,
	}
}

// CreateOrder creates a payment intent for the amount in minor units.
func (g *StripeGateway) CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (*models.GatewayOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Receipt),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.Receipt)
	params.AddMetadata("kind", string(req.Kind))
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("stripe: payment intent creation failed", zap.String("receipt", req.Receipt), zap.Error(err))
		return nil, utils.WrapError(utils.KindGateway, "Unable to create payment order", err)
	}

	g.logger.Info("stripe: payment intent created", zap.String("orderId", pi.ID), zap.Int64("amount", pi.Amount))
	return &models.GatewayOrder{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: strings.ToUpper(string(pi.Currency)),
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts succeeded payments.
func (g *StripeGateway) ParseWebhook(payload []byte, signatureHeader string) (*models.GatewayPayment, error) {
	if g.webhookSecret == "" {
		return nil, utils.NewError(utils.KindInvalidSignature, "Webhook verification is not configured")
	}
	evt, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, utils.WrapError(utils.KindInvalidSignature, "Invalid webhook signature", err)
	}
	if string(evt.Type) != eventPaymentIntentSucceeded {
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, utils.WrapError(utils.KindInvalidInput, "Malformed payment intent", err)
	}
	return paymentFromIntent(&pi), nil
}

func paymentFromIntent(pi *stripe.PaymentIntent) *models.GatewayPayment {
	paymentID := pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		paymentID = pi.LatestCharge.ID
	}
	return &models.GatewayPayment{
		OrderID:   pi.ID,
		PaymentID: paymentID,
		Kind:      models.OrderKind(pi.Metadata["kind"]),
		Notes:     pi.Metadata,
	}
}

func (g *StripeGateway) String() string {
	return fmt.Sprintf("stripe(timeout=%s)", g.timeout)
}
