package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one Pending/Confirmed booking holds any hour of a service.
		{
			Keys: bson.D{{Key: "serviceId", Value: 1}, {Key: "heldHours", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("active_slot_unique"),
		},
		{
			Keys:    bson.D{{Key: "scheduledDateTime", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("scheduled_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "customerInfo.email", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("email_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
