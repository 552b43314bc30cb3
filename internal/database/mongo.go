package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// SearchIndexName names the compound index backing title/category search
const SearchIndexName = "titleCategory"

// ConnectMongo opens a client with the stable v1 server API and pings the
// admin database before returning it.
func ConnectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Pinged MongoDB deployment, connection established")
	return client, nil
}

// EnsureMongoIndexes creates the search index if it does not exist yet
func EnsureMongoIndexes(ctx context.Context, collection *mongo.Collection, logger *zap.Logger) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}, {Key: "category", Value: 1}},
		Options: options.Index().SetName(SearchIndexName),
	}

	name, err := collection.Indexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", SearchIndexName, err)
	}

	logger.Info("Mongo index ready",
		zap.String("collection", collection.Name()),
		zap.String("index", name),
	)
	return nil
}
