package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

	mt.Run("duplicate slot is a conflict", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.Booking{
			ID:                "b-1",
			ServiceID:         "svc-1",
			ScheduledDateTime: at,
			Status:            models.BookingPending,
		})
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, utils.ErrSlotConflict))
	})

	mt.Run("create marks pending bookings active", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		booking := &models.Booking{ID: "b-2", ServiceID: "svc-1", ScheduledDateTime: at, Status: models.BookingPending}
		require.NoError(mt, repo.Create(context.Background(), booking))
		assert.True(mt, booking.Active)
		assert.Equal(mt, []time.Time{at}, booking.HeldHours)
	})

	mt.Run("confirm returns the updated document", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "id", Value: "b-3"},
			{Key: "status", Value: string(models.BookingConfirmed)},
			{Key: "paymentId", Value: "pay_1"},
		}}))

		booking, err := repo.Confirm(context.Background(), "b-3", "order_1", "pay_1", "https://meet", at)
		require.NoError(mt, err)
		assert.Equal(mt, models.BookingConfirmed, booking.Status)
		assert.Equal(mt, "pay_1", booking.PaymentID)
	})

	mt.Run("confirm on a moved booking reports state change", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Confirm(context.Background(), "b-4", "order_1", "pay_1", "", at)
		assert.ErrorIs(mt, err, ErrStateChanged)
	})

	mt.Run("missing booking is not found", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.bookings", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.True(mt, errors.Is(err, utils.ErrNotFound))
	})

	mt.Run("free slot has no holder", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.bookings", mtest.FirstBatch))

		holder, err := repo.FindActiveForSlot(context.Background(), "svc-1", at)
		require.NoError(mt, err)
		assert.Nil(mt, holder)
	})
}

func TestBuildBookingFilter(t *testing.T) {
	from := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	t.Run("day window", func(t *testing.T) {
		f := buildBookingFilter(models.BookingFilter{
			ServiceID:     "svc-1",
			Statuses:      []models.BookingStatus{models.BookingPending, models.BookingConfirmed},
			ScheduledFrom: &from,
			ScheduledTo:   &to,
		})
		assert.Equal(t, "svc-1", f["serviceId"])
		assert.Equal(t, bson.M{"$gte": from, "$lt": to}, f["scheduledDateTime"])
		assert.NotContains(t, f, "$or")
	})

	t.Run("single owner is inlined", func(t *testing.T) {
		f := buildBookingFilter(models.BookingFilter{Email: "ada@example.com"})
		assert.Equal(t, bson.M{"customerInfo.email": "ada@example.com"}, f)
	})

	t.Run("user id or email", func(t *testing.T) {
		f := buildBookingFilter(models.BookingFilter{UserID: "u-1", Email: "ada@example.com"})
		assert.Equal(t, bson.A{
			bson.M{"userId": "u-1"},
			bson.M{"customerInfo.email": "ada@example.com"},
		}, f["$or"])
	})
}
