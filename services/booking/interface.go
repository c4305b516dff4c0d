package booking

import (
	"context"
	"time"

	bookingRepo "portfolio/database/repository/booking"
	catalogRepo "portfolio/database/repository/catalog"
	"portfolio/models"
	"portfolio/services/payment"

	"go.uber.org/zap"
)

// BookingService is the consultation booking flow: availability, reservation,
// payment confirmation, cancellation, listing and expiry of unpaid bookings.
type BookingService interface {
	GetAvailability(ctx context.Context, serviceID, date string) ([]models.Slot, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingCreated, error)
	ConfirmPayment(ctx context.Context, req models.BookingPaymentConfirmation) (*models.Booking, error)
	ConfirmGatewayPayment(ctx context.Context, bookingID string, payment models.GatewayPayment) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.BookingView, error)
	ExpirePending(ctx context.Context, bookingID string) (bool, error)
	SweepExpired(ctx context.Context) (int, error)
}

// Events receives side effects after a state change has been committed.
// Errors are logged by the caller and never undo the change.
type Events interface {
	BookingCreated(ctx context.Context, booking *models.Booking, expireAt time.Time) error
	BookingConfirmed(ctx context.Context, booking *models.Booking, service *models.Service) error
}

// Policy holds the booking rules read from configuration.
type Policy struct {
	Location          *time.Location
	MeetingLink       string
	PendingTTL        time.Duration
	CancellationLimit time.Duration
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Catalog  catalogRepo.CatalogRepository
	Gateway  payment.OrderGateway
	Verifier *payment.SignatureVerifier
	Cache    SlotCache
	Events   Events
	Policy   Policy
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewBookingService fills unset optional collaborators with no-op versions.
func NewBookingService(svc DefaultBookingService) *DefaultBookingService {
	s := svc
	if s.Cache == nil {
		s.Cache = noopCache{}
	}
	if s.Events == nil {
		s.Events = noopEvents{}
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Policy.Location == nil {
		s.Policy.Location = time.UTC
	}
	if s.Policy.CancellationLimit == 0 {
		s.Policy.CancellationLimit = 24 * time.Hour
	}
	return &s
}

var _ BookingService = (*DefaultBookingService)(nil)

type noopEvents struct{}

func (noopEvents) BookingCreated(context.Context, *models.Booking, time.Time) error     { return nil }
func (noopEvents) BookingConfirmed(context.Context, *models.Booking, *models.Service) error { return nil }
