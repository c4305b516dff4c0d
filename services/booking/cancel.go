package booking

import (
	"context"
	"errors"

	bookingRepo "portfolio/database/repository/booking"
	"portfolio/models"
	"portfolio/utils"

	"go.uber.org/zap"
)

// CancelBooking cancels the actor's own booking no later than the
// cancellation limit before it starts.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsBooking(b) {
		return nil, utils.NewError(utils.KindForbidden, "You can only cancel your own bookings")
	}

	now := s.Now()
	if b.ScheduledDateTime.Sub(now) < s.Policy.CancellationLimit {
		return nil, utils.NewError(utils.KindTooLate, "Bookings can only be cancelled at least 24 hours in advance")
	}
	if !b.Status.IsActive() {
		return nil, utils.InvalidInput("Booking cannot be cancelled in its current state")
	}

	cancelled, err := s.Repo.Cancel(ctx, bookingID, reason, now)
	if errors.Is(err, bookingRepo.ErrStateChanged) {
		return nil, utils.InvalidInput("Booking cannot be cancelled in its current state")
	}
	if err != nil {
		return nil, err
	}
	s.invalidateSlots(ctx, cancelled)

	s.Logger.Info("booking cancelled", zap.String("bookingId", bookingID))
	return cancelled, nil
}
