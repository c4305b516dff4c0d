package catalogRepo

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

const readTimeout = 5 * time.Second

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	services  *mongo.Collection
	resources *mongo.Collection
}

// NewMongoCatalogRepo creates the repository and ensures its indexes.
func NewMongoCatalogRepo(db *mongo.Database) (*MongoCatalogRepo, error) {
	repo := &MongoCatalogRepo{
		services:  db.Collection("services"),
		resources: db.Collection("resources"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// EnsureIndexes creates unique id indexes on both catalog collections.
func (r *MongoCatalogRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")}
	if _, err := r.services.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	if _, err := r.resources.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}
	return nil
}

// withRetry runs an idempotent read, retrying once on a transient failure.
func withRetry(ctx context.Context, read func(ctx context.Context) error) error {
	err := runRead(ctx, read)
	if err != nil && database.IsTransient(err) {
		err = runRead(ctx, read)
	}
	return err
}

func runRead(ctx context.Context, read func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return read(ctx)
}

// GetServiceByID retrieves an active service by id.
func (r *MongoCatalogRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	err := withRetry(ctx, func(ctx context.Context) error {
		return r.services.FindOne(ctx, bson.M{"id": id, "isActive": true}).Decode(&service)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Service not found")
		}
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &service, nil
}

// GetServicesByIDs retrieves services keyed by id, skipping unknown ids.
func (r *MongoCatalogRepo) GetServicesByIDs(ctx context.Context, ids []string) (map[string]*models.Service, error) {
	out := make(map[string]*models.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := withRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.services.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		var services []models.Service
		if err := cursor.All(ctx, &services); err != nil {
			return err
		}
		for i := range services {
			out[services[i].ID] = &services[i]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching services: %w", err)
	}
	return out, nil
}

// IncrementServiceBookings bumps the service's totalBookings counter.
func (r *MongoCatalogRepo) IncrementServiceBookings(ctx context.Context, id string) error {
	return incrementCounter(ctx, r.services, id, "totalBookings")
}

// GetResourceByID retrieves an active resource by id.
func (r *MongoCatalogRepo) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	err := withRetry(ctx, func(ctx context.Context) error {
		return r.resources.FindOne(ctx, bson.M{"id": id, "isActive": true}).Decode(&resource)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Resource not found")
		}
		return nil, fmt.Errorf("error fetching resource %s: %w", id, err)
	}
	return &resource, nil
}

// GetResourcesByIDs retrieves resources keyed by id, skipping unknown ids.
func (r *MongoCatalogRepo) GetResourcesByIDs(ctx context.Context, ids []string) (map[string]*models.Resource, error) {
	out := make(map[string]*models.Resource, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := withRetry(ctx, func(ctx context.Context) error {
		cursor, err := r.resources.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		var resources []models.Resource
		if err := cursor.All(ctx, &resources); err != nil {
			return err
		}
		for i := range resources {
			out[resources[i].ID] = &resources[i]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching resources: %w", err)
	}
	return out, nil
}

// IncrementResourceDownloads bumps the resource's downloads counter.
func (r *MongoCatalogRepo) IncrementResourceDownloads(ctx context.Context, id string) error {
	return incrementCounter(ctx, r.resources, id, "downloads")
}

func incrementCounter(ctx context.Context, coll *mongo.Collection, id, field string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to increment %s on %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return utils.NotFound(fmt.Sprintf("%s not found", coll.Name()))
	}
	return nil
}
