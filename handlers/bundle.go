package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	JWTSecret []byte

	// Booking endpoints
	GetAvailability gin.HandlerFunc
	CreateBooking   gin.HandlerFunc
	ConfirmBooking  gin.HandlerFunc
	MyBookings      gin.HandlerFunc
	CancelBooking   gin.HandlerFunc

	// Payment endpoints
	CreateOrder    gin.HandlerFunc
	VerifyPayment  gin.HandlerFunc
	Download       gin.HandlerFunc
	MyPurchases    gin.HandlerFunc
	PaymentWebhook gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into a bundle.
func NewHandlerBundle(jwtSecret []byte, bookings *BookingHandler, payments *PaymentHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		JWTSecret: jwtSecret,

		GetAvailability: bookings.GetAvailability,
		CreateBooking:   bookings.CreateBooking,
		ConfirmBooking:  bookings.ConfirmPayment,
		MyBookings:      bookings.MyBookings,
		CancelBooking:   bookings.CancelBooking,

		CreateOrder:    payments.CreateOrder,
		VerifyPayment:  payments.VerifyPayment,
		Download:       payments.Download,
		MyPurchases:    payments.MyPurchases,
		PaymentWebhook: payments.Webhook,

		Health: health.Health,
	}
}
