package booking

import (
	"context"
	"errors"

	bookingRepo "portfolio/database/repository/booking"
	"portfolio/models"
	"portfolio/utils"

	"go.uber.org/zap"
)

// ConfirmPayment verifies the gateway signature and confirms the booking.
// Nothing is read or written when the signature does not verify.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, req models.BookingPaymentConfirmation) (*models.Booking, error) {
	if !s.Verifier.Verify(req.PaymentConfirmation) {
		s.Logger.Warn("booking payment signature rejected",
			zap.String("bookingId", req.BookingID), zap.String("orderId", req.OrderID))
		return nil, utils.NewError(utils.KindInvalidSignature, "Invalid payment signature")
	}
	return s.confirm(ctx, req.BookingID, req.OrderID, req.PaymentID)
}

// ConfirmGatewayPayment confirms a booking from an already authenticated
// gateway webhook.
func (s *DefaultBookingService) ConfirmGatewayPayment(ctx context.Context, bookingID string, p models.GatewayPayment) (*models.Booking, error) {
	return s.confirm(ctx, bookingID, p.OrderID, p.PaymentID)
}

func (s *DefaultBookingService) confirm(ctx context.Context, bookingID, orderID, paymentID string) (*models.Booking, error) {
	now := s.Now()
	confirmed, err := s.Repo.Confirm(ctx, bookingID, orderID, paymentID, s.Policy.MeetingLink, now)
	if errors.Is(err, bookingRepo.ErrStateChanged) {
		return s.explainUnconfirmable(ctx, bookingID, orderID, paymentID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Catalog.IncrementServiceBookings(ctx, confirmed.ServiceID); err != nil {
		s.Logger.Error("failed to increment service bookings", zap.String("serviceId", confirmed.ServiceID), zap.Error(err))
	}

	svcs, err := s.Catalog.GetServicesByIDs(ctx, []string{confirmed.ServiceID})
	if err != nil {
		s.Logger.Warn("service lookup for confirmation failed", zap.String("serviceId", confirmed.ServiceID), zap.Error(err))
	}
	if err := s.Events.BookingConfirmed(ctx, confirmed, svcs[confirmed.ServiceID]); err != nil {
		s.Logger.Error("failed to enqueue booking confirmation", zap.String("bookingId", confirmed.ID), zap.Error(err))
	}

	s.Logger.Info("booking confirmed", zap.String("bookingId", confirmed.ID), zap.String("paymentId", paymentID))
	return confirmed, nil
}

// explainUnconfirmable classifies a confirm that lost its guard. A replay of
// the confirmation that already succeeded returns the booking unchanged.
func (s *DefaultBookingService) explainUnconfirmable(ctx context.Context, bookingID, orderID, paymentID string) (*models.Booking, error) {
	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch {
	case current.PaymentOrderID != orderID:
		return nil, utils.InvalidInput("Payment order does not match this booking")
	case current.Status == models.BookingConfirmed && current.PaymentID == paymentID:
		return current, nil
	case current.Status == models.BookingCancelled && current.PaymentStatus == models.PaymentFailed:
		return nil, utils.NewError(utils.KindExpired, "Booking payment window has expired")
	default:
		return nil, utils.InvalidInput("Booking is not awaiting payment")
	}
}
