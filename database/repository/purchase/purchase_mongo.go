package purchaseRepo

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

// MongoPurchaseRepo implements PurchaseRepository using MongoDB.
type MongoPurchaseRepo struct {
	coll *mongo.Collection
}

// NewMongoPurchaseRepo creates the repository and ensures its indexes.
func NewMongoPurchaseRepo(db *mongo.Database) (*MongoPurchaseRepo, error) {
	repo := &MongoPurchaseRepo{coll: db.Collection("purchases")}
	if err := repo.EnsureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new purchase document.
func (r *MongoPurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, purchase); err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("error creating purchase: %w", err)
	}
	return nil
}

// GetByPaymentID retrieves the purchase recorded for a gateway payment.
func (r *MongoPurchaseRepo) GetByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"paymentId": paymentID})
}

// GetByTokenHash retrieves the purchase owning a download link.
func (r *MongoPurchaseRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"downloadLinks.tokenHash": tokenHash})
}

func (r *MongoPurchaseRepo) findOne(ctx context.Context, filter bson.M) (*models.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var purchase models.Purchase
	if err := r.coll.FindOne(ctx, filter).Decode(&purchase); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Purchase not found")
		}
		return nil, fmt.Errorf("error fetching purchase: %w", err)
	}
	return &purchase, nil
}

// AppendDownloadLink pushes a new link onto the purchase.
func (r *MongoPurchaseRepo) AppendDownloadLink(ctx context.Context, purchaseID string, link models.DownloadLink) (*models.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"downloadLinks": link},
		"$set":  bson.M{"updatedAt": link.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var purchase models.Purchase
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": purchaseID}, update, opts).Decode(&purchase); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Purchase not found")
		}
		return nil, fmt.Errorf("error appending download link: %w", err)
	}
	return &purchase, nil
}

// Redeem consumes one download link in a single findAndModify.
func (r *MongoPurchaseRepo) Redeem(ctx context.Context, tokenHash string, at time.Time) (*models.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.PurchaseCompleted,
		"expiresAt": bson.M{"$gt": at},
		"downloadLinks": bson.M{"$elemMatch": bson.M{
			"tokenHash": tokenHash,
			"used":      false,
			"expiresAt": bson.M{"$gt": at},
		}},
		"$expr": bson.M{"$lt": bson.A{"$downloadCount", "$maxDownloads"}},
	}
	update := bson.M{
		"$set": bson.M{"downloadLinks.$.used": true, "updatedAt": at},
		"$inc": bson.M{"downloadCount": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var purchase models.Purchase
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&purchase); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotRedeemable
		}
		return nil, fmt.Errorf("error redeeming download link: %w", err)
	}
	return &purchase, nil
}

// Find returns purchases owned by a user id or customer email, newest first.
func (r *MongoPurchaseRepo) Find(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var owners bson.A
	if filter.UserID != "" {
		owners = append(owners, bson.M{"userId": filter.UserID})
	}
	if filter.Email != "" {
		owners = append(owners, bson.M{"customerInfo.email": filter.Email})
	}
	if len(owners) == 0 {
		return []models.Purchase{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"$or": owners}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding purchases: %w", err)
	}
	defer cursor.Close(ctx)

	purchases := []models.Purchase{}
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("error decoding purchases: %w", err)
	}
	return purchases, nil
}
