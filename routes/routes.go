package routes

import (
	"strings"
	"time"

	"portfolio/handlers"
	"portfolio/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the consultation booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/availability/:serviceId", hb.GetAvailability)
		api.POST("", middleware.OptionalJWTAuthMiddleware(hb.JWTSecret), hb.CreateBooking)
		api.POST("/confirm-payment", hb.ConfirmBooking)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.JWTSecret))
		protected.GET("/my-bookings", hb.MyBookings)
		protected.PUT("/:id/cancel", hb.CancelBooking)
	}
}

// RegisterPaymentRoutes registers resource sale and download endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/create-order", hb.CreateOrder)
		api.POST("/verify", middleware.OptionalJWTAuthMiddleware(hb.JWTSecret), hb.VerifyPayment)
		api.GET("/download/:token", hb.Download)
		api.POST("/webhook", hb.PaymentWebhook)
		api.GET("/purchases", middleware.JWTAuthMiddleware(hb.JWTSecret), hb.MyPurchases)
	}
}

// RegisterHealthRoute registers the health check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes installs CORS and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, clientURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(clientURL),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}

func allowedOrigins(clientURL string) []string {
	var origins []string
	for _, o := range strings.Split(clientURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:5173"}
	}
	return origins
}
