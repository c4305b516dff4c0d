// Command seed loads the catalog section of config.yaml into MongoDB,
// upserting services and resources by id. Counters of existing documents
// are preserved.
package main

import (
	"context"
	"log"
	"time"

	"portfolio/config"
	"portfolio/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.DatabaseName)

	now := time.Now().UTC()

	services := db.Collection("services")
	for _, svc := range cfg.Catalog.Services {
		svc.UpdatedAt = now
		if err := upsert(ctx, services, svc.ID, svc, "totalBookings", now); err != nil {
			log.Fatalf("Failed to upsert service %s: %v", svc.ID, err)
		}
	}

	resources := db.Collection("resources")
	for _, res := range cfg.Catalog.Resources {
		res.UpdatedAt = now
		if err := upsert(ctx, resources, res.ID, res, "downloads", now); err != nil {
			log.Fatalf("Failed to upsert resource %s: %v", res.ID, err)
		}
	}

	log.Printf("Seeded %d services and %d resources into %s", len(cfg.Catalog.Services), len(cfg.Catalog.Resources), cfg.DatabaseName)
}

// upsert sets every field of doc except the counter and createdAt, which are
// only written on insert.
func upsert(ctx context.Context, coll *mongo.Collection, id string, doc any, counter string, now time.Time) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return err
	}
	delete(fields, counter)
	delete(fields, "createdAt")

	_, err = coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": fields, "$setOnInsert": bson.M{counter: 0, "createdAt": now}},
		options.Update().SetUpsert(true),
	)
	return err
}
