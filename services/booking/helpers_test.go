package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	memoryRepo "portfolio/database/repository/memory"
	"portfolio/models"
	"portfolio/services/payment"
)

const testSecret = "test-key-secret"

// Tuesday 2030-01-01 08:00 UTC; the next Monday is 2030-01-07.
var baseNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

var monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu        sync.Mutex
	created   []string
	confirmed []string
}

func (e *recordedEvents) BookingCreated(_ context.Context, b *models.Booking, _ time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, b.ID)
	return nil
}

func (e *recordedEvents) BookingConfirmed(_ context.Context, b *models.Booking, _ *models.Service) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmed = append(e.confirmed, b.ID)
	return nil
}

type fixture struct {
	svc     *DefaultBookingService
	repo    *memoryRepo.BookingStore
	catalog *memoryRepo.CatalogStore
	gateway *payment.LocalGateway
	events  *recordedEvents
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    memoryRepo.NewBookingStore(),
		catalog: memoryRepo.NewCatalogStore(),
		gateway: payment.NewLocalGateway(),
		events:  &recordedEvents{},
		now:     baseNow,
	}
	f.catalog.PutService(models.Service{
		ID:       "svc-1",
		Title:    "Portfolio Review",
		Price:    999,
		Currency: "INR",
		Duration: 60,
		Availability: models.WeeklyAvailability{
			Days:      []string{"Monday"},
			TimeSlots: []models.TimeWindow{{Start: "09:00", End: "12:00"}},
		},
		IsActive: true,
	})
	f.svc = NewBookingService(DefaultBookingService{
		Repo:     f.repo,
		Catalog:  f.catalog,
		Gateway:  f.gateway,
		Verifier: payment.NewSignatureVerifier(testSecret),
		Events:   f.events,
		Policy: Policy{
			Location:    time.UTC,
			MeetingLink: "https://meet.example.com/abc",
			PendingTTL:  30 * time.Minute,
		},
		Now: func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) request(hour int, email string) models.BookingRequest {
	return models.BookingRequest{
		ServiceID:         "svc-1",
		ScheduledDateTime: monday.Add(time.Duration(hour) * time.Hour),
		CustomerInfo:      models.CustomerInfo{Name: "Ada", Email: email},
	}
}

func confirmationFor(b *models.Booking, paymentID string) models.BookingPaymentConfirmation {
	return models.BookingPaymentConfirmation{
		BookingID: b.ID,
		PaymentConfirmation: models.PaymentConfirmation{
			OrderID:   b.PaymentOrderID,
			PaymentID: paymentID,
			Signature: payment.Sign(b.PaymentOrderID, paymentID, []byte(testSecret)),
		},
	}
}

func slotTimes(slots []models.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}
