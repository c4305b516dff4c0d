package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	slotLength = time.Hour
)

// GetAvailability lists the future hourly slots of a service on a date, in
// the booking timezone, minus hours overlapped by active bookings.
func (s *DefaultBookingService) GetAvailability(ctx context.Context, serviceID, date string) ([]models.Slot, error) {
	loc := s.Policy.Location
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, utils.InvalidInput("Invalid date format, expected YYYY-MM-DD")
	}

	svc, err := s.Catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !offeredOn(svc.Availability, day.Weekday()) {
		return []models.Slot{}, nil
	}

	booked, err := s.bookedIntervals(ctx, serviceID, day)
	if err != nil {
		return nil, err
	}

	slots, err := AvailableSlots(svc.Availability, day, booked, s.Now())
	if err != nil {
		s.Logger.Warn("service has a malformed availability window",
			zap.String("serviceId", serviceID), zap.Error(err))
		return []models.Slot{}, nil
	}
	return slots, nil
}

// AvailableSlots computes the bookable hours of day. day must be local
// midnight in the booking timezone. A slot is offered when it lies entirely
// inside the first daily window, starts strictly after now and overlaps no
// booked interval.
func AvailableSlots(avail models.WeeklyAvailability, day time.Time, booked []BookedInterval, now time.Time) ([]models.Slot, error) {
	slots := []models.Slot{}
	if !offeredOn(avail, day.Weekday()) || len(avail.TimeSlots) == 0 {
		return slots, nil
	}

	window := avail.TimeSlots[0]
	startMin, err := clockMinutes(window.Start)
	if err != nil {
		return nil, err
	}
	endMin, err := clockMinutes(window.End)
	if err != nil {
		return nil, err
	}

	// First whole hour at or after the window start.
	first := (startMin + 59) / 60 * 60
	for m := first; m+60 <= endMin; m += 60 {
		at := time.Date(day.Year(), day.Month(), day.Day(), m/60, 0, 0, 0, day.Location())
		if !at.After(now) || isBooked(booked, at) {
			continue
		}
		slots = append(slots, models.Slot{
			Time:     at.Format("15:04"),
			DateTime: at.UTC(),
		})
	}
	return slots, nil
}

// IsBookable reports whether at is one of the slots AvailableSlots could
// offer for the service, ignoring existing bookings and the current time.
func IsBookable(avail models.WeeklyAvailability, at time.Time, loc *time.Location) bool {
	local := at.In(loc)
	if local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	slots, err := AvailableSlots(avail, day, nil, time.Time{})
	if err != nil {
		return false
	}
	for _, slot := range slots {
		if slot.DateTime.Equal(at) {
			return true
		}
	}
	return false
}

func offeredOn(avail models.WeeklyAvailability, weekday time.Weekday) bool {
	for _, d := range avail.Days {
		if strings.EqualFold(strings.TrimSpace(d), weekday.String()) {
			return true
		}
	}
	return false
}

func isBooked(booked []BookedInterval, at time.Time) bool {
	for _, b := range booked {
		if b.overlaps(at, slotLength) {
			return true
		}
	}
	return false
}

// clockMinutes parses "HH:MM" into minutes after midnight.
func clockMinutes(v string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// bookedIntervals loads the active bookings of a local day, through the cache.
func (s *DefaultBookingService) bookedIntervals(ctx context.Context, serviceID string, day time.Time) ([]BookedInterval, error) {
	date := day.Format(dateLayout)
	cached, gen, ok := s.Cache.Get(ctx, serviceID, date)
	if ok {
		return cached, nil
	}

	from := day
	to := day.AddDate(0, 0, 1)
	bookings, err := s.Repo.Find(ctx, models.BookingFilter{
		ServiceID:     serviceID,
		Statuses:      models.ActiveBookingStatuses,
		ScheduledFrom: &from,
		ScheduledTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s on %s: %w", serviceID, date, err)
	}

	booked := make([]BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		minutes := b.Duration
		if minutes <= 0 {
			minutes = int(slotLength / time.Minute)
		}
		booked = append(booked, BookedInterval{Start: b.ScheduledDateTime, Minutes: minutes})
	}
	s.Cache.Set(ctx, serviceID, date, gen, booked)
	return booked, nil
}

// invalidateSlots drops the cached calendar of the booking's local day.
func (s *DefaultBookingService) invalidateSlots(ctx context.Context, b *models.Booking) {
	date := b.ScheduledDateTime.In(s.Policy.Location).Format(dateLayout)
	s.Cache.Invalidate(ctx, b.ServiceID, date)
}
