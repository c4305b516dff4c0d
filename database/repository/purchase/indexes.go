package purchaseRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the purchases collection.
func (r *MongoPurchaseRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "paymentId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_payment")},
		{Keys: bson.D{{Key: "downloadLinks.tokenHash", Value: 1}}, Options: options.Index().SetName("token_hash_idx")},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("user_created_idx")},
		{Keys: bson.D{{Key: "customerInfo.email", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("email_created_idx")},
		// Expired purchases are removed by the server once expiresAt passes.
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("purchase_ttl")},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create purchase indexes: %w", err)
	}
	return nil
}
