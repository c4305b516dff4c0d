// Package memoryRepo keeps bookings, purchases and the catalog in process
// memory. Every guarded write runs under the store lock so it gives the same
// atomicity as the Mongo repositories; it backs STORAGE_DRIVER=memory and tests.
package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "portfolio/database/repository/booking"
	"portfolio/models"
	"portfolio/utils"
)

type slotKey struct {
	serviceID string
	at        int64
}

// BookingStore is an in-memory BookingRepository.
type BookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	active   map[slotKey]string
}

var _ bookingRepo.BookingRepository = (*BookingStore)(nil)

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[string]*models.Booking),
		active:   make(map[slotKey]string),
	}
}

func keyFor(serviceID string, at time.Time) slotKey {
	return slotKey{serviceID: serviceID, at: at.UnixMilli()}
}

func (s *BookingStore) Create(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking.Active = booking.Status.IsActive()
	booking.HeldHours = booking.CoveredHours()
	if booking.Active {
		for _, h := range booking.HeldHours {
			if _, taken := s.active[keyFor(booking.ServiceID, h)]; taken {
				return utils.NewError(utils.KindSlotConflict, "This time slot is no longer available")
			}
		}
		for _, h := range booking.HeldHours {
			s.active[keyFor(booking.ServiceID, h)] = booking.ID
		}
	}
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, utils.NotFound("Booking not found")
	}
	cp := *b
	return &cp, nil
}

func (s *BookingStore) FindActiveForSlot(_ context.Context, serviceID string, at time.Time) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active[keyFor(serviceID, at)]
	if !ok {
		return nil, nil
	}
	cp := *s.bookings[id]
	return &cp, nil
}

func (s *BookingStore) Find(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Booking{}
	for _, b := range s.bookings {
		if matchesBooking(b, f) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func matchesBooking(b *models.Booking, f models.BookingFilter) bool {
	if f.ServiceID != "" && b.ServiceID != f.ServiceID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if b.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ScheduledFrom != nil && b.ScheduledDateTime.Before(*f.ScheduledFrom) {
		return false
	}
	if f.ScheduledTo != nil && !b.ScheduledDateTime.Before(*f.ScheduledTo) {
		return false
	}
	if f.CreatedBefore != nil && !b.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	if f.UserID != "" || f.Email != "" {
		byUser := f.UserID != "" && b.UserID == f.UserID
		byEmail := f.Email != "" && b.CustomerInfo.Email == f.Email
		if !byUser && !byEmail {
			return false
		}
	}
	return true
}

func (s *BookingStore) Confirm(_ context.Context, id, orderID, paymentID, meetingLink string, at time.Time) (*models.Booking, error) {
	return s.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingPending || b.PaymentOrderID != orderID {
			return false
		}
		b.Status = models.BookingConfirmed
		b.PaymentStatus = models.PaymentPaid
		b.PaymentID = paymentID
		b.MeetingLink = meetingLink
		b.ConfirmedAt = &at
		b.UpdatedAt = at
		return true
	})
}

func (s *BookingStore) Cancel(_ context.Context, id, reason string, at time.Time) (*models.Booking, error) {
	return s.update(id, func(b *models.Booking) bool {
		if !b.Active {
			return false
		}
		b.Status = models.BookingCancelled
		b.CancelledAt = &at
		b.CancelReason = reason
		b.UpdatedAt = at
		return true
	})
}

func (s *BookingStore) ExpirePending(_ context.Context, id string, at time.Time) (*models.Booking, error) {
	return s.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingPending || b.PaymentStatus != models.PaymentPending {
			return false
		}
		b.Status = models.BookingCancelled
		b.PaymentStatus = models.PaymentFailed
		b.CancelledAt = &at
		b.CancelReason = "payment window expired"
		b.UpdatedAt = at
		return true
	})
}

// update applies mutate under the lock; mutate returns false when the guard fails.
func (s *BookingStore) update(id string, mutate func(b *models.Booking) bool) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrStateChanged
	}
	next := *b
	if !mutate(&next) {
		return nil, bookingRepo.ErrStateChanged
	}
	next.Active = next.Status.IsActive()
	if b.Active && !next.Active {
		for _, h := range b.HeldHours {
			delete(s.active, keyFor(b.ServiceID, h))
		}
	}
	s.bookings[id] = &next
	cp := next
	return &cp, nil
}
