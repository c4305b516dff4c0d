package handlers

import (
	"net/http"

	"portfolio/middleware"
	"portfolio/models"
	"portfolio/services/booking"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the consultation booking endpoints.
type BookingHandler struct {
	Svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// GetAvailability handles GET /api/bookings/availability/:serviceId?date=YYYY-MM-DD.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, utils.InvalidInput("Date is required"))
		return
	}
	slots, err := h.Svc.GetAvailability(c.Request.Context(), c.Param("serviceId"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, slots)
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.UserID = middleware.ActorFromContext(c).UserID

	created, err := h.Svc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

// ConfirmPayment handles POST /api/bookings/confirm-payment.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var req models.BookingPaymentConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	confirmed, err := h.Svc.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Booking confirmed successfully", confirmed)
}

// MyBookings handles GET /api/bookings/my-bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	views, err := h.Svc.ListForCustomer(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, views)
}

type cancelRequest struct {
	Reason       string `json:"reason"`
	CancelReason string `json:"cancelReason"`
}

// CancelBooking handles PUT /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = req.CancelReason
	}

	cancelled, err := h.Svc.CancelBooking(c.Request.Context(), c.Param("id"), middleware.ActorFromContext(c), reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Booking cancelled successfully", cancelled)
}
