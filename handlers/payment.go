package handlers

import (
	"io"
	"net/http"

	"portfolio/middleware"
	"portfolio/models"
	"portfolio/services/booking"
	"portfolio/services/payment"
	"portfolio/services/purchase"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// PaymentHandler exposes resource sales, downloads and the gateway webhook.
type PaymentHandler struct {
	Purchases purchase.PurchaseService
	Bookings  booking.BookingService
	Webhooks  payment.WebhookParser
}

func NewPaymentHandler(purchases purchase.PurchaseService, bookings booking.BookingService, webhooks payment.WebhookParser) *PaymentHandler {
	return &PaymentHandler{Purchases: purchases, Bookings: bookings, Webhooks: webhooks}
}

// CreateOrder handles POST /api/payments/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.Purchases.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// VerifyPayment handles POST /api/payments/verify.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req models.PurchaseVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.UserID = middleware.ActorFromContext(c).UserID

	receipt, err := h.Purchases.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Payment verified successfully", receipt)
}

// Download handles GET /api/payments/download/:token by redirecting to the file.
func (h *PaymentHandler) Download(c *gin.Context) {
	redemption, err := h.Purchases.Redeem(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, redemption.FileURL)
}

// MyPurchases handles GET /api/payments/purchases.
func (h *PaymentHandler) MyPurchases(c *gin.Context) {
	views, err := h.Purchases.ListForCustomer(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, views)
}

// Webhook handles POST /api/payments/webhook. Only authenticated
// payment_intent.succeeded events change state; other events are acknowledged.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	logger := getLogger(c)
	if h.Webhooks == nil {
		respondError(c, utils.NotFound("Webhooks are not enabled"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondError(c, utils.InvalidInput("Unreadable webhook body"))
		return
	}
	p, err := h.Webhooks.ParseWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Warn("webhook rejected", zap.Error(err))
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ctx := c.Request.Context()
	switch p.Kind {
	case models.OrderKindBooking:
		_, err = h.Bookings.ConfirmGatewayPayment(ctx, p.Notes["bookingId"], *p)
	case models.OrderKindResource:
		err = h.Purchases.CompleteGatewayPayment(ctx, *p)
	default:
		logger.Info("webhook for unknown order kind ignored", zap.String("orderId", p.OrderID))
	}
	if err != nil && utils.StatusCode(err) >= http.StatusInternalServerError {
		respondError(c, err)
		return
	}
	if err != nil {
		logger.Warn("webhook payment not applied", zap.String("orderId", p.OrderID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
