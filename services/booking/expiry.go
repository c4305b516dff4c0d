package booking

import (
	"context"
	"errors"

	bookingRepo "portfolio/database/repository/booking"
	"portfolio/models"

	"go.uber.org/zap"
)

// ExpirePending releases a booking whose payment never arrived. It reports
// false when the booking was already paid, cancelled or expired.
func (s *DefaultBookingService) ExpirePending(ctx context.Context, bookingID string) (bool, error) {
	expired, err := s.Repo.ExpirePending(ctx, bookingID, s.Now())
	if errors.Is(err, bookingRepo.ErrStateChanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.invalidateSlots(ctx, expired)
	s.Logger.Info("pending booking expired", zap.String("bookingId", bookingID))
	return true, nil
}

// SweepExpired expires every pending booking older than the payment window.
// It backs up the per-booking expiry task.
func (s *DefaultBookingService) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.Now().Add(-s.Policy.PendingTTL)
	stale, err := s.Repo.Find(ctx, models.BookingFilter{
		Statuses:      []models.BookingStatus{models.BookingPending},
		CreatedBefore: &cutoff,
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range stale {
		ok, err := s.ExpirePending(ctx, b.ID)
		if err != nil {
			s.Logger.Error("failed to expire pending booking", zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if ok {
			count++
		}
	}
	if count > 0 {
		s.Logger.Info("expired stale pending bookings", zap.Int("count", count))
	}
	return count, nil
}
