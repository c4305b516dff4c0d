package booking

import (
	"context"
	"strings"

	"portfolio/models"
	"portfolio/utils"
)

// ListForCustomer returns the actor's bookings, newest first, each with its
// service summary when the service still exists.
func (s *DefaultBookingService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.BookingView, error) {
	if actor.UserID == "" && actor.Email == "" {
		return nil, utils.NewError(utils.KindUnauthorized, "Authentication required")
	}

	bookings, err := s.Repo.Find(ctx, models.BookingFilter{
		UserID: actor.UserID,
		Email:  strings.ToLower(strings.TrimSpace(actor.Email)),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool)
	for _, b := range bookings {
		if !seen[b.ServiceID] {
			seen[b.ServiceID] = true
			ids = append(ids, b.ServiceID)
		}
	}
	services, err := s.Catalog.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := models.BookingView{Booking: b}
		if svc, ok := services[b.ServiceID]; ok {
			view.Service = svc.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}
