package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAndConfirm_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateBooking(ctx, f.request(10, "Ada@Example.com "))
	require.NoError(t, err)

	b := created.Booking
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.Equal(t, "ada@example.com", b.CustomerInfo.Email)
	assert.Equal(t, int64(99900), created.GatewayOrder.Amount)
	assert.Equal(t, "INR", created.GatewayOrder.Currency)
	assert.Equal(t, created.GatewayOrder.ID, b.PaymentOrderID)
	assert.Equal(t, []string{b.ID}, f.events.created)

	orders := f.gateway.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "booking_"+b.ID, orders[0].Receipt)
	assert.Equal(t, models.OrderKindBooking, orders[0].Kind)

	confirmed, err := f.svc.ConfirmPayment(ctx, confirmationFor(b, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
	assert.Equal(t, models.PaymentPaid, confirmed.PaymentStatus)
	assert.Equal(t, "pay_1", confirmed.PaymentID)
	assert.Equal(t, "https://meet.example.com/abc", confirmed.MeetingLink)
	require.NotNil(t, confirmed.ConfirmedAt)

	svc, err := f.catalog.GetServiceByID(ctx, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.TotalBookings)
	assert.Equal(t, []string{b.ID}, f.events.confirmed)

	slots, err := f.svc.GetAvailability(ctx, "svc-1", "2030-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotTimes(slots))
}

func TestCreateBooking_ConcurrentRequestsForOneSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, utils.ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	active, err := f.repo.Find(ctx, models.BookingFilter{Statuses: models.ActiveBookingStatuses})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCreateBooking_OverlappingLongBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, err := f.catalog.GetServiceByID(ctx, "svc-1")
	require.NoError(t, err)
	svc.Duration = 120
	f.catalog.PutService(*svc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for _, hour := range []int{10, 11, 10, 11} {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			_, err := f.svc.CreateBooking(ctx, f.request(hour, "ada@example.com"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}(hour)
	}
	wg.Wait()

	assert.Equal(t, 1, oks, "10:00 and 11:00 overlap for a two hour service")
	for _, err := range errs {
		assert.ErrorIs(t, err, utils.ErrSlotConflict)
	}

	active, err := f.repo.Find(ctx, models.BookingFilter{ServiceID: "svc-1", Statuses: models.ActiveBookingStatuses})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Len(t, active[0].HeldHours, 2)

	_, err = f.svc.CancelBooking(ctx, active[0].ID, models.Actor{Email: "ada@example.com"}, "")
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, f.request(11, "ada@example.com"))
	assert.NoError(t, err, "cancelling releases every held hour")
}

func TestCreateBooking_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateBooking(ctx, models.BookingRequest{
		ServiceID:         "missing",
		ScheduledDateTime: monday.Add(10 * time.Hour),
		CustomerInfo:      models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.svc.CreateBooking(ctx, f.request(13, "ada@example.com"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput, "outside the daily window")

	req := f.request(10, "")
	_, err = f.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	f.now = monday.Add(11 * time.Hour)
	_, err = f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput, "past slot")

	assert.Empty(t, f.gateway.Orders(), "no gateway order for rejected requests")
}

func TestConfirmPayment_TamperedSignatureChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	require.NoError(t, err)

	req := confirmationFor(created.Booking, "pay_1")
	req.Signature = "00" + req.Signature[2:]
	if req.Signature == confirmationFor(created.Booking, "pay_1").Signature {
		req.Signature = "11" + req.Signature[2:]
	}

	_, err = f.svc.ConfirmPayment(ctx, req)
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)

	stored, err := f.repo.GetByID(ctx, created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Empty(t, stored.PaymentID)
	assert.Empty(t, f.events.confirmed)
}

func TestConfirmPayment_ReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	require.NoError(t, err)

	first, err := f.svc.ConfirmPayment(ctx, confirmationFor(created.Booking, "pay_1"))
	require.NoError(t, err)
	second, err := f.svc.ConfirmPayment(ctx, confirmationFor(created.Booking, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.BookingConfirmed, second.Status)

	svc, err := f.catalog.GetServiceByID(ctx, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.TotalBookings, "counter increments once")
	assert.Len(t, f.events.confirmed, 1)

	_, err = f.svc.ConfirmPayment(ctx, confirmationFor(created.Booking, "pay_2"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput, "a different payment cannot re-confirm")
}

func TestConfirmPayment_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	require.NoError(t, err)

	unknown := confirmationFor(created.Booking, "pay_1")
	unknown.BookingID = "missing"
	_, err = f.svc.ConfirmPayment(ctx, unknown)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	other := *created.Booking
	other.PaymentOrderID = "order_other"
	_, err = f.svc.ConfirmPayment(ctx, confirmationFor(&other, "pay_1"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput, "order id must belong to the booking")
}

func TestConfirmGatewayPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateBooking(ctx, f.request(9, "ada@example.com"))
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmGatewayPayment(ctx, created.Booking.ID, models.GatewayPayment{
		OrderID:   created.Booking.PaymentOrderID,
		PaymentID: "ch_1",
		Kind:      models.OrderKindBooking,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	owner := models.Actor{UserID: "user-1", Email: "ada@example.com"}

	t.Run("exactly 24 hours ahead is allowed", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(10, "ada@example.com")
		req.UserID = "user-1"
		created, err := f.svc.CreateBooking(ctx, req)
		require.NoError(t, err)

		f.now = created.Booking.ScheduledDateTime.Add(-24 * time.Hour)
		cancelled, err := f.svc.CancelBooking(ctx, created.Booking.ID, owner, "change of plans")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, cancelled.Status)
		assert.Equal(t, "change of plans", cancelled.CancelReason)

		held, err := f.repo.FindActiveForSlot(ctx, "svc-1", created.Booking.ScheduledDateTime)
		require.NoError(t, err)
		assert.Nil(t, held, "slot is released")

		_, err = f.svc.CancelBooking(ctx, created.Booking.ID, owner, "again")
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("23h59m ahead is too late", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateBooking(ctx, f.request(11, "ada@example.com"))
		require.NoError(t, err)

		f.now = created.Booking.ScheduledDateTime.Add(-(23*time.Hour + 59*time.Minute))
		_, err = f.svc.CancelBooking(ctx, created.Booking.ID, owner, "")
		assert.ErrorIs(t, err, utils.ErrTooLate)

		stored, err := f.repo.GetByID(ctx, created.Booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingPending, stored.Status)
	})

	t.Run("other customers are forbidden", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateBooking(ctx, f.request(9, "ada@example.com"))
		require.NoError(t, err)

		_, err = f.svc.CancelBooking(ctx, created.Booking.ID, models.Actor{UserID: "user-2", Email: "eve@example.com"}, "")
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})

	t.Run("email match grants ownership", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateBooking(ctx, f.request(9, "ada@example.com"))
		require.NoError(t, err)

		_, err = f.svc.CancelBooking(ctx, created.Booking.ID, models.Actor{Email: "ADA@example.com"}, "")
		assert.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CancelBooking(ctx, "missing", owner, "")
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestListForCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := f.request(9, "ada@example.com")
	req.UserID = "user-1"
	first, err := f.svc.CreateBooking(ctx, req)
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	second, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, f.request(11, "eve@example.com"))
	require.NoError(t, err)

	views, err := f.svc.ListForCustomer(ctx, models.Actor{UserID: "user-1", Email: "ada@example.com"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.Booking.ID, views[0].ID, "newest first")
	assert.Equal(t, first.Booking.ID, views[1].ID)
	require.NotNil(t, views[0].Service)
	assert.Equal(t, "Portfolio Review", views[0].Service.Title)

	_, err = f.svc.ListForCustomer(ctx, models.Actor{})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stale, err := f.svc.CreateBooking(ctx, f.request(9, "ada@example.com"))
	require.NoError(t, err)
	paid, err := f.svc.CreateBooking(ctx, f.request(10, "ada@example.com"))
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, confirmationFor(paid.Booking, "pay_1"))
	require.NoError(t, err)

	f.now = f.now.Add(31 * time.Minute)
	count, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expired, err := f.repo.GetByID(ctx, stale.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, expired.Status)
	assert.Equal(t, models.PaymentFailed, expired.PaymentStatus)

	ok, err := f.svc.ExpirePending(ctx, paid.Booking.ID)
	require.NoError(t, err)
	assert.False(t, ok, "confirmed bookings never expire")

	_, err = f.svc.ConfirmPayment(ctx, confirmationFor(stale.Booking, "pay_late"))
	assert.ErrorIs(t, err, utils.ErrExpired)

	slots, err := f.svc.GetAvailability(ctx, "svc-1", "2030-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotTimes(slots), "expired slot is bookable again")
}
