package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/database"
	"portfolio/models"
	"portfolio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const expiredReason = "payment window expired"

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates the repository and ensures its indexes.
func NewMongoBookingRepo(db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.EnsureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// Create inserts a new booking document. The partial unique index on
// (serviceId, heldHours) for active bookings turns a concurrent booking of
// any overlapping hour into a duplicate key error.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	booking.Active = booking.Status.IsActive()
	booking.HeldHours = booking.CoveredHours()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if database.IsDuplicateKey(err) {
			return utils.WrapError(utils.KindSlotConflict, "This time slot is no longer available", err)
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Booking not found")
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// FindActiveForSlot returns the Pending or Confirmed booking holding the slot, or nil.
func (r *MongoBookingRepo) FindActiveForSlot(ctx context.Context, serviceID string, at time.Time) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"serviceId": serviceID,
		"heldHours": at,
		"active":    true,
	}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking slot for service %s: %w", serviceID, err)
	}
	return &booking, nil
}

// Find returns bookings matching the filter, newest first.
func (r *MongoBookingRepo) Find(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, buildBookingFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// Confirm atomically moves a Pending booking to Confirmed/Paid.
func (r *MongoBookingRepo) Confirm(ctx context.Context, id, orderID, paymentID, meetingLink string, at time.Time) (*models.Booking, error) {
	filter := bson.M{
		"id":             id,
		"status":         models.BookingPending,
		"paymentOrderId": orderID,
	}
	update := bson.M{"$set": bson.M{
		"status":        models.BookingConfirmed,
		"paymentStatus": models.PaymentPaid,
		"paymentId":     paymentID,
		"meetingLink":   meetingLink,
		"confirmedAt":   at,
		"updatedAt":     at,
	}}
	return r.guardedUpdate(ctx, filter, update)
}

// Cancel atomically cancels an active booking and frees its slot.
func (r *MongoBookingRepo) Cancel(ctx context.Context, id, reason string, at time.Time) (*models.Booking, error) {
	filter := bson.M{"id": id, "active": true}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingCancelled,
		"active":       false,
		"cancelledAt":  at,
		"cancelReason": reason,
		"updatedAt":    at,
	}}
	return r.guardedUpdate(ctx, filter, update)
}

// ExpirePending releases a booking whose payment never arrived.
func (r *MongoBookingRepo) ExpirePending(ctx context.Context, id string, at time.Time) (*models.Booking, error) {
	filter := bson.M{
		"id":            id,
		"status":        models.BookingPending,
		"paymentStatus": models.PaymentPending,
	}
	update := bson.M{"$set": bson.M{
		"status":        models.BookingCancelled,
		"paymentStatus": models.PaymentFailed,
		"active":        false,
		"cancelledAt":   at,
		"cancelReason":  expiredReason,
		"updatedAt":     at,
	}}
	return r.guardedUpdate(ctx, filter, update)
}

// guardedUpdate applies update only when filter still matches and returns the new document.
func (r *MongoBookingRepo) guardedUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStateChanged
		}
		return nil, fmt.Errorf("error updating booking: %w", err)
	}
	return &booking, nil
}
