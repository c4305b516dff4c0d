package bookingRepo

import (
	"context"
	"errors"
	"time"

	"portfolio/models"
)

// ErrStateChanged is returned when a guarded update matched no booking because
// its state no longer satisfies the guard.
var ErrStateChanged = errors.New("booking state changed")

// BookingRepository defines booking data access. Every state transition is a
// single guarded write; callers never read-then-write.
type BookingRepository interface {
	// Create inserts a booking; a second active booking for the same
	// (service, scheduledDateTime) fails with a SlotConflict error.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking, failing with NotFound.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindActiveForSlot returns the active booking holding a slot, or nil.
	FindActiveForSlot(ctx context.Context, serviceID string, at time.Time) (*models.Booking, error)
	// Find returns bookings matching the filter, newest first.
	Find(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// Confirm moves a Pending booking paid by orderID to Confirmed/Paid.
	Confirm(ctx context.Context, id, orderID, paymentID, meetingLink string, at time.Time) (*models.Booking, error)
	// Cancel moves an active booking to Cancelled and releases its slot.
	Cancel(ctx context.Context, id, reason string, at time.Time) (*models.Booking, error)
	// ExpirePending cancels a booking still awaiting payment and marks the payment Failed.
	ExpirePending(ctx context.Context, id string, at time.Time) (*models.Booking, error)
}
