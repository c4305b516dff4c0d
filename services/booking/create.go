package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking reserves a slot and opens a gateway order for it. The booking
// is persisted only after the order exists; the unique active-slot constraint
// decides any race between concurrent requests for the same slot.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingCreated, error) {
	customer := normalizeCustomer(req.CustomerInfo)
	if customer.Name == "" || customer.Email == "" {
		return nil, utils.InvalidInput("Customer name and email are required")
	}
	if req.ScheduledDateTime.IsZero() {
		return nil, utils.InvalidInput("Scheduled date and time are required")
	}

	svc, err := s.Catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	scheduled := req.ScheduledDateTime.UTC().Truncate(time.Millisecond)
	if !scheduled.After(now) {
		return nil, utils.InvalidInput("Scheduled time must be in the future")
	}
	if !IsBookable(svc.Availability, scheduled, s.Policy.Location) {
		return nil, utils.InvalidInput("Requested time is outside the service's availability")
	}

	held, err := s.Repo.FindActiveForSlot(ctx, svc.ID, scheduled)
	if err != nil {
		return nil, err
	}
	if held != nil {
		return nil, utils.NewError(utils.KindSlotConflict, "This time slot is no longer available")
	}

	bookingID := uuid.New().String()
	order, err := s.Gateway.CreateOrder(ctx, models.GatewayOrderRequest{
		Amount:   utils.ToMinorUnits(svc.Price),
		Currency: svc.Currency,
		Receipt:  "booking_" + bookingID,
		Kind:     models.OrderKindBooking,
		Notes: map[string]string{
			"bookingId":         bookingID,
			"serviceId":         svc.ID,
			"serviceTitle":      svc.Title,
			"customerEmail":     customer.Email,
			"scheduledDateTime": scheduled.Format(time.RFC3339),
		},
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, utils.WrapError(utils.KindGateway, "Unable to create payment order", err)
	}

	booking := &models.Booking{
		ID:                bookingID,
		ServiceID:         svc.ID,
		UserID:            req.UserID,
		CustomerInfo:      customer,
		ScheduledDateTime: scheduled,
		Duration:          svc.Duration,
		Status:            models.BookingPending,
		PaymentStatus:     models.PaymentPending,
		PaymentOrderID:    order.ID,
		Amount:            svc.Price,
		Currency:          svc.Currency,
		Requirements:      req.Requirements,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		if errors.Is(err, utils.ErrSlotConflict) {
			s.Logger.Info("slot taken while the gateway order was open",
				zap.String("serviceId", svc.ID), zap.Time("scheduledDateTime", scheduled), zap.String("orderId", order.ID))
		}
		return nil, err
	}
	s.invalidateSlots(ctx, booking)

	expireAt := now.Add(s.Policy.PendingTTL)
	if err := s.Events.BookingCreated(ctx, booking, expireAt); err != nil {
		s.Logger.Error("failed to schedule pending booking expiry", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID), zap.String("serviceId", svc.ID), zap.String("orderId", order.ID))
	return &models.BookingCreated{Booking: booking, GatewayOrder: *order}, nil
}

func normalizeCustomer(c models.CustomerInfo) models.CustomerInfo {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}
